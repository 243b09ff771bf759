// Package document provides line-indexed, read-only access to stylesheet text.
package document

import (
	"errors"
	"strings"
)

// ErrEmptyDocument is returned when a document is built from empty input.
var ErrEmptyDocument = errors.New("document: empty input")

// Document is an immutable line-indexed view of a stylesheet. It keeps the
// raw text as a single buffer plus a line offset table, so line and range
// access never copies except to trim the trailing newline of a range.
// Lines are 1-indexed and ranges are inclusive on both ends.
type Document struct {
	source string
	text   string
	starts []int // byte offset of each line start; one extra entry at len(text)
}

// New builds a document from raw text. The source identifier is carried
// through to emitted chunks; it is not opened or resolved here.
func New(source, text string) (*Document, error) {
	if text == "" {
		return nil, ErrEmptyDocument
	}

	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	// A trailing newline terminates the last line rather than opening an
	// empty one after it.
	if len(starts) > 1 && starts[len(starts)-1] == len(text) {
		starts = starts[:len(starts)-1]
	}
	starts = append(starts, len(text))

	return &Document{source: source, text: text, starts: starts}, nil
}

// Source returns the source identifier the document was built with.
func (d *Document) Source() string {
	return d.source
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.starts) - 1
}

// Line returns line n without its line terminator. Out-of-bounds line
// numbers return the empty string.
func (d *Document) Line(n int) string {
	if n < 1 || n > d.LineCount() {
		return ""
	}
	return trimEOL(d.text[d.starts[n-1]:d.starts[n]])
}

// Range returns lines [start, end] as one contiguous block without the final
// line terminator. Bounds are clamped to the document.
func (d *Document) Range(start, end int) string {
	start, end, ok := d.clamp(start, end)
	if !ok {
		return ""
	}
	return trimEOL(d.text[d.starts[start-1]:d.starts[end]])
}

// ByteLen returns the raw byte length of lines [start, end] including line
// terminators. It is an O(1) lookup against the offset table, which is what
// keeps range size estimation cheap.
func (d *Document) ByteLen(start, end int) int {
	start, end, ok := d.clamp(start, end)
	if !ok {
		return 0
	}
	return d.starts[end] - d.starts[start-1]
}

func (d *Document) clamp(start, end int) (int, int, bool) {
	if start < 1 {
		start = 1
	}
	if n := d.LineCount(); end > n {
		end = n
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
