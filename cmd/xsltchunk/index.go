// cmd/xsltchunk/index.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/cache"
	"github.com/stylesheet-ai/xsltchunk/internal/metrics"
	"github.com/stylesheet-ai/xsltchunk/internal/pipeline"
)

var indexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Chunk, embed and store a stylesheet tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexCmd,
}

var (
	indexCollection  string
	indexConcurrency int
	indexNoCache     bool
)

func init() {
	indexCmd.Flags().StringVar(&indexCollection, "collection", "xslt_chunks", "Qdrant collection name")
	indexCmd.Flags().IntVar(&indexConcurrency, "concurrency", 4, "Parallel file workers")
	indexCmd.Flags().BoolVar(&indexNoCache, "no-cache", false, "Skip the Redis chunk cache")
	rootCmd.AddCommand(indexCmd)
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Errorf("directory not found: %s", root)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	voyageKey := os.Getenv("VOYAGE_API_KEY")
	if voyageKey == "" {
		return fmt.Errorf("VOYAGE_API_KEY environment variable not set")
	}

	runner := pipeline.NewRunner(cfg)
	runner.Concurrency = indexConcurrency

	if !indexNoCache && cfg.Storage.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Storage.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: chunk cache disabled: %v\n", err)
		} else {
			runner.Cache = redisCache
			defer redisCache.Close()
		}
	}

	if cfg.Logging.MetricsPath != "" {
		logger, err := metrics.NewLogger(cfg.Logging.MetricsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: metrics disabled: %v\n", err)
		} else {
			runner.Metrics = logger
			defer logger.Close()
		}
	}

	idx, err := pipeline.NewIndexer(cfg, runner, voyageKey)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer idx.Close()

	fmt.Printf("Indexing %s...\n", root)

	result, err := idx.Index(context.Background(), root, indexCollection)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files processed: %d\n", result.FilesProcessed)
	fmt.Printf("  Chunks stored:   %d\n", result.ChunksStored)
	fmt.Printf("  Cache hits:      %d\n", result.CacheHits)

	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %v\n", e)
		}
	}

	return nil
}
