package boundary

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylesheet-ai/xsltchunk/internal/document"
)

type stubDetector struct {
	cands []Candidate
}

func (s stubDetector) Detect(_ *document.Document, _, _ int) []Candidate {
	return s.cands
}

func TestAggregateOrdersAndMerges(t *testing.T) {
	doc := mustDoc(t, "a\nb\nc\nd\ne")

	detectors := []Detector{
		stubDetector{cands: []Candidate{
			{Line: 4, Kind: KindVariableCluster, Label: "vars"},
			{Line: 2, Kind: KindConditional, Label: "if"},
		}},
		stubDetector{cands: []Candidate{
			{Line: 2, Kind: KindOutputElement, Label: "<Out>"},
		}},
	}

	got := Aggregate(doc, 1, 5, detectors)
	require.Len(t, got, 2)

	// Ascending by line, and the same-line conflict resolves to the
	// higher-priority output element.
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, KindOutputElement, got[0].Kind)
	assert.Equal(t, 4, got[1].Line)
}

func TestAggregateCollapsesAdjacentSameKind(t *testing.T) {
	doc := mustDoc(t, "a\nb\nc\nd")

	detectors := []Detector{
		stubDetector{cands: []Candidate{
			{Line: 1, Kind: KindOutputElement},
			{Line: 2, Kind: KindOutputElement},
			{Line: 4, Kind: KindOutputElement},
		}},
	}

	got := Aggregate(doc, 1, 4, detectors)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, 4, got[1].Line)
}

func TestAggregateKeepsDistinctAdjacentKinds(t *testing.T) {
	doc := mustDoc(t, "a\nb")

	detectors := []Detector{
		stubDetector{cands: []Candidate{
			{Line: 1, Kind: KindRepetition},
			{Line: 2, Kind: KindConditional},
		}},
	}

	got := Aggregate(doc, 1, 2, detectors)
	assert.Len(t, got, 2)
}

func TestAggregateEmpty(t *testing.T) {
	doc := mustDoc(t, "a")
	assert.Nil(t, Aggregate(doc, 1, 1, []Detector{stubDetector{}}))
}

func TestAggregateRealStylesheet(t *testing.T) {
	doc := mustDoc(t, sampleTemplate)
	got := Aggregate(doc, 1, doc.LineCount(), DefaultDetectors())

	require.NotEmpty(t, got)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].Line < got[j].Line
	}))
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Line, got[i-1].Line)
	}
}
