// Package sizer estimates token cost for line ranges of a document.
//
// The estimate is a deterministic heuristic, not real tokenization:
// tokens = ceil(bytes / 4), which tracks common BPE tokenizers closely
// enough for budget decisions. Because it is computed from the document's
// offset table, any range estimate is O(1) and extending a range's end line
// never decreases the result. The splitter's binary search relies on that
// monotonicity.
package sizer

import "github.com/stylesheet-ai/xsltchunk/internal/document"

// BytesPerToken is the divisor for the token heuristic.
const BytesPerToken = 4

// Estimator estimates token cost for ranges of one document.
type Estimator struct {
	doc *document.Document
}

// New creates an estimator bound to a document.
func New(doc *document.Document) *Estimator {
	return &Estimator{doc: doc}
}

// Range returns the estimated token cost of lines [start, end] inclusive.
func (e *Estimator) Range(start, end int) int {
	n := e.doc.ByteLen(start, end)
	if n == 0 {
		return 0
	}
	return (n + BytesPerToken - 1) / BytesPerToken
}

// Text estimates the token cost of an arbitrary string with the same
// heuristic, for callers sizing content that is not a document range.
func Text(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + BytesPerToken - 1) / BytesPerToken
}
