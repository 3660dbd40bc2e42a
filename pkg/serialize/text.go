// File: pkg/serialize/text.go
package serialize

import (
	"bytes"
	"unicode/utf8"
)

// isText reports whether content can be emitted as-is: valid UTF-8 with no
// NUL bytes.
func isText(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	return utf8.Valid(content)
}
