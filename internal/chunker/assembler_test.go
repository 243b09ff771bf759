package chunker

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylesheet-ai/xsltchunk/internal/document"
)

func mustDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	doc, err := document.New("test.xsl", text)
	require.NoError(t, err)
	return doc
}

// bigUnit builds a single ~1800-line template: `blocks` sibling output
// sections of exactly 100 lines each, every content line 40 bytes (10
// estimated tokens) so budgets translate directly into line counts.
func bigUnit(blocks int) string {
	var b strings.Builder
	b.WriteString("<xsl:template match=\"Report\">\n")
	field := "    <Field>" + strings.Repeat("x", 20) + "</Field>"
	for i := 0; i < blocks; i++ {
		b.WriteString("  <Section>\n")
		for j := 0; j < 98; j++ {
			b.WriteString(field + "\n")
		}
		b.WriteString("  </Section>\n")
	}
	b.WriteString("</xsl:template>\n")
	return b.String()
}

func TestChunkSmallDocumentSingleChunk(t *testing.T) {
	doc := mustDoc(t, "<xsl:template match=\"A\">\n  <Out/>\n</xsl:template>")

	chunks, err := New().Chunk(doc, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, KindUnit, c.Kind)
	assert.Equal(t, 1, c.StartLine)
	assert.Equal(t, 3, c.EndLine)
	assert.Equal(t, 0, c.OverlapWithPrevious)
	assert.False(t, c.IsBoundaryFallback)
	assert.False(t, c.IsBudgetExceeded)
	assert.Equal(t, "template A", c.UnitLabel)
	assert.Empty(t, c.ParentUnitID)
}

func TestChunkOversizedUnitAlignsToOutputElements(t *testing.T) {
	doc := mustDoc(t, bigUnit(18))
	require.Equal(t, 1802, doc.LineCount())

	opts := Options{
		MaxChunkTokens:         1100,
		MinChunkTokens:         300,
		OverlapTargetLines:     5,
		OverlapToleranceTokens: 50,
	}
	chunks, err := New().Chunk(doc, opts)
	require.NoError(t, err)

	// One sub-chunk per ~100-line section.
	require.Len(t, chunks, 18)

	for i, c := range chunks {
		assert.Equal(t, KindSubUnit, c.Kind)
		assert.Equal(t, i, c.SequenceIndex)
		assert.Equal(t, chunks[0].ParentUnitID, c.ParentUnitID)
		assert.False(t, c.IsBoundaryFallback, "chunk %d", i)
		assert.False(t, c.IsBudgetExceeded, "chunk %d", i)
		assert.LessOrEqual(t, c.TokenEstimate, opts.MaxChunkTokens+opts.OverlapToleranceTokens)

		if i == 0 {
			assert.Equal(t, 0, c.OverlapWithPrevious)
			continue
		}
		// Overlap within the 3-10 line window the consumers expect.
		assert.GreaterOrEqual(t, c.OverlapWithPrevious, 3)
		assert.LessOrEqual(t, c.OverlapWithPrevious, 10)

		// Every split landed on a section boundary: the base start line
		// (after removing overlap) opens a section.
		baseStart := c.StartLine + c.OverlapWithPrevious
		assert.Equal(t, "  <Section>", doc.Line(baseStart), "chunk %d", i)

		// Overlap bookkeeping matches the line ranges.
		assert.Equal(t, chunks[i-1].EndLine-c.StartLine+1, c.OverlapWithPrevious)
	}
}

func TestChunkCoverageIsTotal(t *testing.T) {
	docs := []string{
		bigUnit(18),
		"just\nplain\ntext\nwith\nno\nmarkup",
		"<?xml version=\"1.0\"?>\n<xsl:stylesheet>\n" + bigUnit(3) + bigUnit(2) + "</xsl:stylesheet>",
	}

	for i, text := range docs {
		t.Run(fmt.Sprintf("doc%d", i), func(t *testing.T) {
			doc := mustDoc(t, text)
			chunks, err := New().Chunk(doc, Options{MaxChunkTokens: 500, MinChunkTokens: 50, OverlapTargetLines: 4})
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			// Base ranges cover every line exactly once.
			next := 1
			for _, c := range chunks {
				base := c.StartLine + c.OverlapWithPrevious
				assert.Equal(t, next, base)
				assert.LessOrEqual(t, c.StartLine, c.EndLine)
				next = c.EndLine + 1
			}
			assert.Equal(t, doc.LineCount()+1, next)
		})
	}
}

func TestChunkNoBoundariesAllFallback(t *testing.T) {
	// Plain lines with no detectable structure, far over budget.
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = strings.Repeat("z", 39)
	}
	doc := mustDoc(t, strings.Join(lines, "\n"))

	chunks, err := New().Chunk(doc, Options{MaxChunkTokens: 100, MinChunkTokens: 20, OverlapTargetLines: 3})
	require.NoError(t, err)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.True(t, c.IsBoundaryFallback, "chunk %d", i)
		assert.Equal(t, KindSubUnit, c.Kind)
	}
}

func TestChunkSingleOversizedLineFlaggedNotError(t *testing.T) {
	doc := mustDoc(t, strings.Repeat("a", 2000))

	chunks, err := New().Chunk(doc, Options{MaxChunkTokens: 100, MinChunkTokens: 10})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].IsBudgetExceeded)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 1, chunks[0].EndLine)
}

func TestChunkDeterministic(t *testing.T) {
	doc := mustDoc(t, bigUnit(6))
	opts := Options{MaxChunkTokens: 700, MinChunkTokens: 100, OverlapTargetLines: 5}

	first, err := New().Chunk(doc, opts)
	require.NoError(t, err)
	second, err := New().Chunk(doc, opts)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChunkInterstitialLinesKept(t *testing.T) {
	text := "<?xml version=\"1.0\"?>\n" +
		"<xsl:stylesheet version=\"1.0\">\n" +
		"<xsl:template match=\"A\">\n  <X/>\n</xsl:template>\n" +
		"<xsl:template match=\"B\">\n  <Y/>\n</xsl:template>\n" +
		"</xsl:stylesheet>"
	doc := mustDoc(t, text)

	chunks, err := New().Chunk(doc, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, chunks, 4)
	assert.Equal(t, KindInterstitial, chunks[0].Kind) // prolog
	assert.Equal(t, KindUnit, chunks[1].Kind)
	assert.Equal(t, KindUnit, chunks[2].Kind)
	assert.Equal(t, KindInterstitial, chunks[3].Kind) // epilog
	assert.Equal(t, "template B", chunks[2].UnitLabel)
}

func TestChunkUnclosedUnitRunsToEnd(t *testing.T) {
	doc := mustDoc(t, "<xsl:template match=\"A\">\n  <X/>\n  <Y/>")

	chunks, err := New().Chunk(doc, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, KindUnit, chunks[0].Kind)
	assert.Equal(t, 3, chunks[0].EndLine)
}

func TestChunkNilDocument(t *testing.T) {
	_, err := New().Chunk(nil, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrEmptyDocument)
}

func TestChunkSerialization(t *testing.T) {
	doc := mustDoc(t, "<xsl:template match=\"A\">\n  <X/>\n</xsl:template>")
	chunks, err := New().Chunk(doc, DefaultOptions())
	require.NoError(t, err)

	data, err := json.Marshal(chunks[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"id", "kind", "source", "start_line", "end_line", "content", "token_estimate", "overlap_with_previous", "sequence_index"} {
		assert.Contains(t, decoded, key)
	}
	// Unset flags stay out of the serialized record.
	assert.NotContains(t, decoded, "is_boundary_fallback")
	assert.NotContains(t, decoded, "is_budget_exceeded")
}

func TestOptionsFingerprint(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.MaxChunkTokens = 999
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultOptions(), o)

	o = Options{MaxChunkTokens: 100, MinChunkTokens: 500}.withDefaults()
	assert.Equal(t, 100, o.MinChunkTokens)
}
