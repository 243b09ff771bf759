package boundary

import (
	"sort"

	"github.com/stylesheet-ai/xsltchunk/internal/document"
)

// Aggregate runs every detector over [start, end] and merges the results
// into one ascending, deduplicated candidate list.
//
// When several candidates land on the same line, the highest-priority kind
// wins. Candidates of the same kind on the same or immediately consecutive
// lines collapse into the first; splitting one line apart from an identical
// boundary buys nothing.
func Aggregate(doc *document.Document, start, end int, detectors []Detector) []Candidate {
	var all []Candidate
	for _, d := range detectors {
		all = append(all, d.Detect(doc, start, end)...)
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		if pi, pj := all[i].Kind.Priority(), all[j].Kind.Priority(); pi != pj {
			return pi > pj
		}
		return all[i].Kind < all[j].Kind
	})

	out := all[:0]
	for _, c := range all {
		if len(out) > 0 {
			last := out[len(out)-1]
			if c.Line == last.Line {
				continue
			}
			if c.Kind == last.Kind && c.Line == last.Line+1 {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
