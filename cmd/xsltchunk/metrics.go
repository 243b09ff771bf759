// cmd/xsltchunk/metrics.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Analyze chunking metrics",
	Long:  `Summarize chunk runs from the metrics log file.`,
	RunE:  runMetrics,
}

var (
	metricsSince string
	metricsJSON  bool
)

func init() {
	metricsCmd.Flags().StringVar(&metricsSince, "last", "7d", "Time period (e.g., 1h, 24h, 7d, 30d)")
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	duration, err := parseDuration(metricsSince)
	if err != nil {
		return fmt.Errorf("invalid time period: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	metricsPath := cfg.Logging.MetricsPath
	if _, err := os.Stat(metricsPath); os.IsNotExist(err) {
		fmt.Println("No metrics data found. Run 'xsltchunk index' to generate metrics.")
		return nil
	}

	summary, err := metrics.NewAnalyzer(metricsPath).Analyze(duration)
	if err != nil {
		return err
	}

	if metricsJSON {
		data, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Metrics Summary (last %s):\n\n", metricsSince)
	fmt.Printf("  Chunk runs:        %d\n", summary.TotalRuns)
	fmt.Printf("  Chunks emitted:    %d\n", summary.TotalChunks)
	fmt.Printf("  Fallback splits:   %d\n", summary.TotalFallbacks)
	fmt.Printf("  Over-budget:       %d\n", summary.TotalBudgetExceeded)
	fmt.Printf("  Cache hits:        %d\n", summary.CacheHits)
	fmt.Printf("  Avg latency:       %dms\n", summary.AvgLatencyMs)
	fmt.Printf("  Errors:            %d\n", summary.Errors)

	if len(summary.TopSources) > 0 {
		fmt.Println()
		fmt.Println("  Top stylesheets:")
		for _, s := range summary.TopSources {
			fmt.Printf("    - %s (%d runs)\n", s.Source, s.Count)
		}
	}

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	// Accept a day suffix on top of the stdlib units
	if len(s) > 0 && s[len(s)-1] == 'd' {
		var d int
		if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &d); err == nil {
			return time.Duration(d) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
