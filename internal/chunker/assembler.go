package chunker

import (
	"fmt"

	"github.com/stylesheet-ai/xsltchunk/internal/boundary"
	"github.com/stylesheet-ai/xsltchunk/internal/document"
	"github.com/stylesheet-ai/xsltchunk/internal/overlap"
	"github.com/stylesheet-ai/xsltchunk/internal/sizer"
	"github.com/stylesheet-ai/xsltchunk/internal/splitter"
)

// Assembler walks a document's top-level units and emits chunks. It is a
// pure function of (document, options): no shared state, no I/O, and the
// same input always produces a byte-identical chunk list.
type Assembler struct {
	detectors []boundary.Detector
}

// New creates an assembler with the default lexical detector set.
func New() *Assembler {
	return NewWithDetectors(boundary.DefaultDetectors())
}

// NewWithDetectors creates an assembler with a custom detector set. The
// rest of the engine only sees boundary candidates, so a future streaming
// parser can slot in here without touching the splitter or this walk.
func NewWithDetectors(detectors []boundary.Detector) *Assembler {
	return &Assembler{detectors: detectors}
}

// Chunk splits the document into an ordered chunk list. Every line of the
// document is covered by exactly one chunk's base range; degraded splits
// come back flagged on the chunk, never as an error.
func (a *Assembler) Chunk(doc *document.Document, opts Options) ([]Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("chunker: %w", document.ErrEmptyDocument)
	}
	opts = opts.withDefaults()
	est := sizer.New(doc)

	var chunks []Chunk
	for _, sp := range topLevelSpans(doc) {
		if est.Range(sp.start, sp.end) <= opts.MaxChunkTokens {
			chunks = append(chunks, a.wholeSpanChunk(doc, est, sp, opts))
			continue
		}
		chunks = append(chunks, a.splitSpan(doc, est, sp, opts)...)
	}
	return chunks, nil
}

// span is one top-level slice of the document: a template unit, or the
// lines between units.
type span struct {
	start, end int
	unit       bool
	label      string
}

// topLevelSpans partitions the document into consecutive spans so that no
// line is dropped: interstitial lines before, between and after units get
// spans of their own. A unit whose close marker never appears runs to the
// end of the document rather than losing lines.
func topLevelSpans(doc *document.Document) []span {
	n := doc.LineCount()
	cands := boundary.UnitDetector{}.Detect(doc, 1, n)

	var spans []span
	pos := 1
	openLine := 0
	openLabel := ""
	open := false

	for _, c := range cands {
		switch c.Kind {
		case boundary.KindUnitStart:
			if open {
				// An open inside an open unit is malformed; keep scanning
				// for the close rather than guessing at a nesting.
				continue
			}
			if c.Line > pos {
				spans = append(spans, span{start: pos, end: c.Line - 1})
			}
			openLine, openLabel, open = c.Line, c.Label, true
			pos = c.Line
		case boundary.KindUnitEnd:
			if !open {
				continue
			}
			spans = append(spans, span{start: openLine, end: c.Line, unit: true, label: openLabel})
			open = false
			pos = c.Line + 1
		}
	}

	if open {
		spans = append(spans, span{start: openLine, end: n, unit: true, label: openLabel})
		pos = n + 1
	}
	if pos <= n {
		spans = append(spans, span{start: pos, end: n})
	}
	return spans
}

func (a *Assembler) wholeSpanChunk(doc *document.Document, est *sizer.Estimator, sp span, opts Options) Chunk {
	kind := KindInterstitial
	if sp.unit {
		kind = KindUnit
	}
	return Chunk{
		ID:            generateChunkID(doc.Source(), string(kind)+":"+sp.label, sp.start),
		Kind:          kind,
		Source:        doc.Source(),
		StartLine:     sp.start,
		EndLine:       sp.end,
		Content:       doc.Range(sp.start, sp.end),
		TokenEstimate: est.Range(sp.start, sp.end),
		UnitLabel:     sp.label,
	}
}

func (a *Assembler) splitSpan(doc *document.Document, est *sizer.Estimator, sp span, opts Options) []Chunk {
	cands := boundary.Aggregate(doc, sp.start, sp.end, a.detectors)
	subs := splitter.Split(est, sp.start, sp.end, opts.MaxChunkTokens, opts.MinChunkTokens, cands)
	overlaps := overlap.Compute(est, subs, opts.OverlapTargetLines,
		opts.MaxChunkTokens, opts.OverlapToleranceTokens)

	parentID := generateChunkID(doc.Source(), "unit:"+sp.label, sp.start)

	chunks := make([]Chunk, 0, len(subs))
	for i, sr := range subs {
		start := sr.Start - overlaps[i]
		baseTok := est.Range(sr.Start, sr.End)
		chunks = append(chunks, Chunk{
			ID:                  generateChunkID(doc.Source(), fmt.Sprintf("sub:%s:%d", sp.label, i), sr.Start),
			Kind:                KindSubUnit,
			Source:              doc.Source(),
			StartLine:           start,
			EndLine:             sr.End,
			Content:             doc.Range(start, sr.End),
			TokenEstimate:       est.Range(start, sr.End),
			OverlapWithPrevious: overlaps[i],
			ParentUnitID:        parentID,
			SequenceIndex:       i,
			UnitLabel:           sp.label,
			IsBoundaryFallback:  sr.Fallback,
			IsBudgetExceeded:    baseTok > opts.MaxChunkTokens,
		})
	}
	return chunks
}
