// Package chunker assembles bounded, semantically coherent chunks from an
// XSLT stylesheet for size-limited downstream consumers.
package chunker

import (
	"crypto/sha256"
	"fmt"
)

// ChunkKind classifies what a chunk covers.
type ChunkKind string

const (
	// KindUnit is a whole top-level unit that fit the budget.
	KindUnit ChunkKind = "unit"
	// KindSubUnit is one slice of an oversized top-level unit.
	KindSubUnit ChunkKind = "sub-unit"
	// KindInterstitial covers lines between units: the prolog, top-level
	// declarations, the stylesheet epilog.
	KindInterstitial ChunkKind = "interstitial"
)

// Chunk is one bounded span of the source document. The base ranges of all
// chunks emitted for a document cover every line exactly once; overlap only
// extends a sub-unit's start back into its predecessor.
type Chunk struct {
	ID     string    `json:"id"`
	Kind   ChunkKind `json:"kind"`
	Source string    `json:"source"`

	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	Content       string `json:"content"`
	TokenEstimate int    `json:"token_estimate"`

	OverlapWithPrevious int    `json:"overlap_with_previous"`
	ParentUnitID        string `json:"parent_unit_id,omitempty"`
	SequenceIndex       int    `json:"sequence_index"`
	UnitLabel           string `json:"unit_label,omitempty"`

	IsBoundaryFallback bool `json:"is_boundary_fallback,omitempty"`
	IsBudgetExceeded   bool `json:"is_budget_exceeded,omitempty"`

	// HasSecrets is set by the pipeline before chunks leave the process.
	HasSecrets bool `json:"has_secrets,omitempty"`
}

// Options controls chunking behavior.
type Options struct {
	// MaxChunkTokens is the hard size budget per chunk.
	MaxChunkTokens int
	// MinChunkTokens is the smallest segment worth emitting on a boundary;
	// below it the splitter keeps scanning.
	MinChunkTokens int
	// OverlapTargetLines is how many trailing lines of a sub-unit to repeat
	// at the start of the next one.
	OverlapTargetLines int
	// OverlapToleranceTokens is how far overlap may push a sub-unit past
	// MaxChunkTokens before the overlap shrinks instead.
	OverlapToleranceTokens int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxChunkTokens:         1500,
		MinChunkTokens:         200,
		OverlapTargetLines:     5,
		OverlapToleranceTokens: 50,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxChunkTokens <= 0 {
		o.MaxChunkTokens = def.MaxChunkTokens
	}
	if o.MinChunkTokens <= 0 {
		o.MinChunkTokens = def.MinChunkTokens
	}
	if o.MinChunkTokens > o.MaxChunkTokens {
		o.MinChunkTokens = o.MaxChunkTokens
	}
	if o.OverlapTargetLines < 0 {
		o.OverlapTargetLines = 0
	}
	if o.OverlapToleranceTokens < 0 {
		o.OverlapToleranceTokens = 0
	}
	return o
}

// Fingerprint returns a short stable digest of the options, used in cache
// keys so a configuration change invalidates cached chunk runs.
func (o Options) Fingerprint() string {
	data := fmt.Sprintf("%d:%d:%d:%d",
		o.MaxChunkTokens, o.MinChunkTokens, o.OverlapTargetLines, o.OverlapToleranceTokens)
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h[:4])
}

func generateChunkID(source, label string, startLine int) string {
	data := fmt.Sprintf("%s:%s:%d", source, label, startLine)
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h[:8])
}
