package overlap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylesheet-ai/xsltchunk/internal/document"
	"github.com/stylesheet-ai/xsltchunk/internal/sizer"
	"github.com/stylesheet-ai/xsltchunk/internal/splitter"
)

// Ten estimated tokens per line, same construction as the splitter tests.
func uniformEstimator(t *testing.T, lines int) *sizer.Estimator {
	t.Helper()
	row := strings.Repeat("x", 39)
	all := make([]string, lines)
	for i := range all {
		all[i] = row
	}
	doc, err := document.New("t.xsl", strings.Join(all, "\n")+"\n")
	require.NoError(t, err)
	return sizer.New(doc)
}

func TestComputeTargetApplied(t *testing.T) {
	est := uniformEstimator(t, 30)
	ranges := []splitter.SubRange{
		{Start: 1, End: 10},
		{Start: 11, End: 20},
		{Start: 21, End: 30},
	}

	got := Compute(est, ranges, 5, 200, 0)
	assert.Equal(t, []int{0, 5, 5}, got)
}

func TestComputeFirstRangeNeverOverlaps(t *testing.T) {
	est := uniformEstimator(t, 10)
	got := Compute(est, []splitter.SubRange{{Start: 1, End: 10}}, 5, 100, 0)
	assert.Equal(t, []int{0}, got)
}

func TestComputeShrinksToRespectBudget(t *testing.T) {
	est := uniformEstimator(t, 20)
	ranges := []splitter.SubRange{
		{Start: 1, End: 10},
		{Start: 11, End: 20}, // 100 tokens on its own
	}

	// Budget 120 with 0 tolerance leaves room for exactly 2 overlap lines.
	got := Compute(est, ranges, 5, 120, 0)
	assert.Equal(t, []int{0, 2}, got)

	// A 10-token tolerance buys one more line.
	got = Compute(est, ranges, 5, 120, 10)
	assert.Equal(t, []int{0, 3}, got)
}

func TestComputeDropsToZeroWhenNoRoom(t *testing.T) {
	est := uniformEstimator(t, 20)
	ranges := []splitter.SubRange{
		{Start: 1, End: 10},
		{Start: 11, End: 20},
	}

	got := Compute(est, ranges, 5, 100, 0)
	assert.Equal(t, []int{0, 0}, got)
}

func TestComputeCappedByPredecessorLength(t *testing.T) {
	est := uniformEstimator(t, 10)
	ranges := []splitter.SubRange{
		{Start: 1, End: 2},
		{Start: 3, End: 10},
	}

	got := Compute(est, ranges, 8, 1000, 0)
	assert.Equal(t, []int{0, 2}, got)
}

func TestComputeDisabled(t *testing.T) {
	est := uniformEstimator(t, 10)
	ranges := []splitter.SubRange{
		{Start: 1, End: 5},
		{Start: 6, End: 10},
	}

	got := Compute(est, ranges, 0, 100, 0)
	assert.Equal(t, []int{0, 0}, got)
}
