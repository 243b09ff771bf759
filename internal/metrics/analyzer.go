package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"time"
)

// Analyzer processes metrics logs.
type Analyzer struct {
	logPath string
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(logPath string) *Analyzer {
	return &Analyzer{logPath: logPath}
}

// Summary contains aggregated chunking metrics.
type Summary struct {
	Period              string        `json:"period"`
	TotalRuns           int           `json:"total_runs"`
	TotalChunks         int           `json:"total_chunks"`
	TotalFallbacks      int           `json:"total_fallbacks"`
	TotalBudgetExceeded int           `json:"total_budget_exceeded"`
	CacheHits           int           `json:"cache_hits"`
	AvgLatencyMs        int64         `json:"avg_latency_ms"`
	Errors              int           `json:"errors"`
	TopSources          []SourceCount `json:"top_sources"`
}

// SourceCount pairs a document source with how often it was chunked.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Analyze processes logs for a time period.
func (a *Analyzer) Analyze(since time.Duration) (*Summary, error) {
	file, err := os.Open(a.logPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cutoff := time.Now().Add(-since)
	summary := &Summary{Period: since.String()}

	sourceCounts := make(map[string]int)
	var totalLatency int64
	var latencyCount int

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}

		tsStr, ok := event["ts"].(string)
		if !ok {
			continue
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil || ts.Before(cutoff) {
			continue
		}

		eventType, _ := event["event"].(string)
		switch eventType {
		case "chunk_run":
			summary.TotalRuns++

			if chunks, ok := event["chunks"].(float64); ok {
				summary.TotalChunks += int(chunks)
			}
			if fallbacks, ok := event["fallbacks"].(float64); ok {
				summary.TotalFallbacks += int(fallbacks)
			}
			if exceeded, ok := event["budget_exceeded"].(float64); ok {
				summary.TotalBudgetExceeded += int(exceeded)
			}
			if cacheHit, ok := event["cache_hit"].(bool); ok && cacheHit {
				summary.CacheHits++
			}
			if latency, ok := event["latency_ms"].(float64); ok {
				totalLatency += int64(latency)
				latencyCount++
			}
			if source, ok := event["source"].(string); ok {
				sourceCounts[source]++
			}
		case "error":
			summary.Errors++
		}
	}

	if latencyCount > 0 {
		summary.AvgLatencyMs = totalLatency / int64(latencyCount)
	}

	type kv struct {
		Key   string
		Value int
	}
	var sorted []kv
	for k, v := range sourceCounts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Key < sorted[j].Key
	})

	for i := 0; i < len(sorted) && i < 10; i++ {
		summary.TopSources = append(summary.TopSources, SourceCount{
			Source: sorted[i].Key,
			Count:  sorted[i].Value,
		})
	}

	return summary, nil
}
