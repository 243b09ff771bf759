// Package boundary finds structural split candidates in XSLT stylesheets.
//
// Detection is purely lexical: regular expressions and indentation cues over
// individual lines, never a grammar-aware parse. A detector that cannot
// classify a construct with confidence omits it: a missed boundary only
// costs split quality, a wrong one breaks a logical unit in half.
package boundary

import "github.com/stylesheet-ai/xsltchunk/internal/document"

// Kind classifies a boundary candidate.
type Kind string

const (
	KindUnitStart       Kind = "unit-start"
	KindUnitEnd         Kind = "unit-end"
	KindOutputElement   Kind = "output-element-open"
	KindRepetition      Kind = "repetition-start"
	KindVariableCluster Kind = "variable-cluster-start"
	KindConditional     Kind = "conditional-block-start"
)

// Priority orders kinds by how safe they are to split on. Unit edges are the
// safest, variable clusters the least.
func (k Kind) Priority() int {
	switch k {
	case KindUnitStart, KindUnitEnd:
		return 50
	case KindOutputElement:
		return 40
	case KindRepetition:
		return 30
	case KindConditional:
		return 20
	case KindVariableCluster:
		return 10
	}
	return 0
}

// SplitsAfter reports whether a split at this candidate falls after its line.
// Closing markers end a segment; every other kind opens one at its line.
func (k Kind) SplitsAfter() bool {
	return k == KindUnitEnd
}

// Candidate marks one line judged structurally safe to split on.
type Candidate struct {
	Line  int
	Kind  Kind
	Label string
}

// SplitLine returns the line the next segment would start at if this
// candidate were chosen as a split point.
func (c Candidate) SplitLine() int {
	if c.Kind.SplitsAfter() {
		return c.Line + 1
	}
	return c.Line
}

// Detector finds one class of split candidate within a line range.
// Implementations must be pure: same document and range, same result.
type Detector interface {
	Detect(doc *document.Document, start, end int) []Candidate
}

// DefaultDetectors returns the standard detector set in priority order.
func DefaultDetectors() []Detector {
	return []Detector{
		UnitDetector{},
		OutputElementDetector{},
		RepetitionDetector{},
		VariableClusterDetector{},
		ConditionalDetector{},
	}
}
