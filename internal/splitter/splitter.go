// Package splitter partitions oversized line ranges into budget-sized
// sub-ranges aligned to boundary candidates.
package splitter

import (
	"github.com/stylesheet-ai/xsltchunk/internal/boundary"
	"github.com/stylesheet-ai/xsltchunk/internal/sizer"
)

// SubRange is one contiguous slice of a split range.
type SubRange struct {
	Start int
	End   int
	// Fallback marks a sub-range with at least one hard edge: no boundary
	// candidate fit the size window, so a cut landed on an arbitrary line.
	Fallback bool
}

// Split partitions [start, end] into sub-ranges whose estimated size stays
// within [minTokens, maxTokens] wherever the boundary layout allows.
//
// The scan is greedy: from the current position it finds the furthest line
// still under budget (binary search, relying on the monotonic estimator), then
// backs up to the latest boundary candidate that keeps the segment at or
// above the minimum. If no candidate qualifies, it hard-splits at the last
// line under budget and flags the sub-range. The result is a single
// canonical partition for a given document and configuration.
func Split(est *sizer.Estimator, start, end, maxTokens, minTokens int, cands []boundary.Candidate) []SubRange {
	var out []SubRange
	cur := start
	hardStart := false // the cut that began the current segment was arbitrary
	for cur <= end {
		if est.Range(cur, end) <= maxTokens {
			out = append(out, SubRange{Start: cur, End: end, Fallback: hardStart})
			break
		}

		fit := lastLineWithinBudget(est, cur, end, maxTokens)
		if fit < cur {
			// A single line already exceeds the budget. Emit it alone;
			// the assembler flags it as over budget.
			out = append(out, SubRange{Start: cur, End: cur, Fallback: true})
			cur++
			hardStart = true
			continue
		}

		if next := latestUsableBoundary(est, cands, cur, fit, minTokens); next > 0 {
			out = append(out, SubRange{Start: cur, End: next - 1, Fallback: hardStart})
			cur = next
			hardStart = false
		} else {
			out = append(out, SubRange{Start: cur, End: fit, Fallback: true})
			cur = fit + 1
			hardStart = true
		}
	}
	return out
}

// lastLineWithinBudget returns the largest e in [cur, end] such that
// [cur, e] estimates at or under maxTokens, or cur-1 if even the first line
// exceeds it. Relies on the estimate growing monotonically with e.
func lastLineWithinBudget(est *sizer.Estimator, cur, end, maxTokens int) int {
	if est.Range(cur, cur) > maxTokens {
		return cur - 1
	}
	lo, hi := cur, end
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if est.Range(cur, mid) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// latestUsableBoundary picks the latest candidate split whose segment
// [cur, split-1] fits the window: under the budget (split-1 <= fit) and at
// least minTokens. Returns 0 when no candidate qualifies.
func latestUsableBoundary(est *sizer.Estimator, cands []boundary.Candidate, cur, fit, minTokens int) int {
	best := 0
	for _, c := range cands {
		split := c.SplitLine()
		if split <= cur || split > fit+1 {
			continue
		}
		if est.Range(cur, split-1) < minTokens {
			continue
		}
		if split > best {
			best = split
		}
	}
	return best
}
