// Package overlap computes context carry-over between adjacent sub-ranges
// of a split unit.
package overlap

import (
	"github.com/stylesheet-ai/xsltchunk/internal/sizer"
	"github.com/stylesheet-ai/xsltchunk/internal/splitter"
)

// Compute returns, for each sub-range, how many trailing lines of its
// predecessor should be duplicated in front of it so a consumer reading the
// sub-range alone keeps its immediate context (an enclosing declaration, an
// open conditional). The first entry is always zero.
//
// Overlap never pushes a sub-range past maxTokens+toleranceTokens: it
// shrinks, line by line, before the budget gives. It also never reaches
// past the start of the predecessor.
func Compute(est *sizer.Estimator, ranges []splitter.SubRange, targetLines, maxTokens, toleranceTokens int) []int {
	out := make([]int, len(ranges))
	if targetLines <= 0 {
		return out
	}

	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]

		ov := targetLines
		if prevLen := prev.End - prev.Start + 1; ov > prevLen {
			ov = prevLen
		}
		for ov > 0 && est.Range(cur.Start-ov, cur.End) > maxTokens+toleranceTokens {
			ov--
		}
		out[i] = ov
	}
	return out
}
