package serialize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"repototext/pkg/walker"

	"go.uber.org/zap"
)

// ErrNotText marks files skipped because their content is not valid text.
var ErrNotText = errors.New("file content is not valid UTF-8 text")

// Serializer emits delimited blocks for accepted files, the tree rendering and
// the debug report.
type Serializer struct {
	label   string
	logger  *zap.Logger
	written int
	skipped []walker.SkippedItem
}

// NewSerializer creates a Serializer whose file blocks are named "<label>/<rel>".
func NewSerializer(label string, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Serializer{label: label, logger: logger}
}

// Written returns the number of file blocks emitted.
func (s *Serializer) Written() int {
	return s.written
}

// Skipped returns the files that could not be read or were not text.
func (s *Serializer) Skipped() []walker.SkippedItem {
	return s.skipped
}

// WriteFile reads c in full and writes its block to w. Unreadable and non-text
// files are logged and skipped; only a failure to write to w is returned.
func (s *Serializer) WriteFile(w io.Writer, c walker.Candidate) error {
	s.logger.Debug("Reading file content", zap.String("filePath", c.Rel))

	content, err := readText(c.Path)
	if err != nil {
		s.logger.Warn("Skipping file", zap.String("filePath", c.Rel), zap.Error(err))
		s.skipped = append(s.skipped, walker.SkippedItem{Path: c.Rel, Reason: err.Error()})
		return nil
	}

	if _, err := NewBlock(FileName(s.label, c.Rel), content).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write block for %s: %w", c.Rel, err)
	}
	s.written++
	return nil
}

// WriteTree writes the tree block. Empty tree text is not written.
func (s *Serializer) WriteTree(w io.Writer, tree string) error {
	tree = strings.TrimRight(tree, "\n")
	if tree == "" {
		s.logger.Warn("Tree rendering is empty, omitting tree block")
		return nil
	}
	if _, err := NewBlock(TreeName, tree).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write tree block: %w", err)
	}
	return nil
}

// WriteDebug writes the debug report block.
func (s *Serializer) WriteDebug(w io.Writer, report string) error {
	if _, err := NewBlock(DebugName, strings.TrimRight(report, "\n")).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write debug block: %w", err)
	}
	return nil
}

func readText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	if !isText(content) {
		return "", ErrNotText
	}
	return string(content), nil
}
