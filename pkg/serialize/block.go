// File: pkg/serialize/block.go
package serialize

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	beginPrefix = "===== BEGIN "
	endPrefix   = "===== END "
	markSuffix  = " ====="

	// TreeName labels the tree rendering block.
	TreeName = "TREE"
	// DebugName labels the run report block.
	DebugName = "DEBUG"
)

// ErrMalformedBlock is returned by ParseBlocks for truncated or unterminated input.
var ErrMalformedBlock = errors.New("malformed block")

// Block is one delimited unit of output.
type Block struct {
	Header string // "===== BEGIN <name> ====="
	Body   string // Raw content, unmodified.
	Footer string // "===== END <name> ====="
}

// NewBlock builds the block for name.
func NewBlock(name, body string) Block {
	return Block{
		Header: beginPrefix + name + markSuffix,
		Body:   body,
		Footer: endPrefix + name + markSuffix,
	}
}

// FileName returns the block name for a file: "<label>/<rel>".
func FileName(label, rel string) string {
	return label + "/" + rel
}

// Name returns the name between the header markers.
func (b Block) Name() string {
	return strings.TrimSuffix(strings.TrimPrefix(b.Header, beginPrefix), markSuffix)
}

// WriteTo writes the header, body and footer followed by two blank lines.
func (b Block) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n\n", b.Header, b.Body, b.Footer)
	return int64(n), err
}

// ParseBlocks splits serialized output back into blocks. A body ends at the
// first matching END marker on its own line.
func ParseBlocks(r io.Reader) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	rest := string(data)

	var blocks []Block
	for {
		rest = strings.TrimLeft(rest, "\n")
		if rest == "" {
			return blocks, nil
		}
		if !strings.HasPrefix(rest, beginPrefix) {
			return blocks, fmt.Errorf("%w: expected BEGIN marker", ErrMalformedBlock)
		}

		lineEnd := strings.IndexByte(rest, '\n')
		if lineEnd < 0 || !strings.HasSuffix(rest[:lineEnd], markSuffix) {
			return blocks, fmt.Errorf("%w: unterminated header", ErrMalformedBlock)
		}
		b := Block{Header: rest[:lineEnd]}
		b.Footer = endPrefix + b.Name() + markSuffix
		rest = rest[lineEnd+1:]

		end := strings.Index(rest, "\n"+b.Footer+"\n")
		if end < 0 {
			return blocks, fmt.Errorf("%w: missing %q", ErrMalformedBlock, b.Footer)
		}
		b.Body = rest[:end]
		rest = rest[end+1+len(b.Footer):]
		blocks = append(blocks, b)
	}
}
