package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerSummarizesRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.jsonl")

	logger, err := NewLogger(path)
	require.NoError(t, err)
	logger.LogChunkRun("a.xsl", 100, 1, 4, 1, 0, 10, false)
	logger.LogChunkRun("a.xsl", 100, 1, 4, 0, 0, 20, true)
	logger.LogChunkRun("b.xsl", 2000, 3, 22, 2, 1, 60, false)
	logger.LogError("chunk", "c.xsl", "empty input")
	require.NoError(t, logger.Close())

	summary, err := NewAnalyzer(path).Analyze(time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRuns)
	assert.Equal(t, 30, summary.TotalChunks)
	assert.Equal(t, 3, summary.TotalFallbacks)
	assert.Equal(t, 1, summary.TotalBudgetExceeded)
	assert.Equal(t, 1, summary.CacheHits)
	assert.Equal(t, int64(30), summary.AvgLatencyMs)
	assert.Equal(t, 1, summary.Errors)

	require.NotEmpty(t, summary.TopSources)
	assert.Equal(t, "a.xsl", summary.TopSources[0].Source)
	assert.Equal(t, 2, summary.TopSources[0].Count)
}

func TestAnalyzerMissingFile(t *testing.T) {
	_, err := NewAnalyzer(filepath.Join(t.TempDir(), "nope.jsonl")).Analyze(time.Hour)
	assert.Error(t, err)
}
