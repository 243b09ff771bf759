// cmd/xsltchunk/invalidate.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/cache"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate [stylesheet]",
	Short: "Drop cached chunk runs",
	Long: `Removes cached chunk runs from Redis. With a stylesheet argument only
that document's cached runs are dropped; without one the whole chunk cache
is cleared. The next index run re-chunks from scratch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvalidate,
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.RedisURL == "" {
		return fmt.Errorf("no Redis URL configured")
	}

	redisCache, err := cache.NewRedisCache(cfg.Storage.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pattern := "chunks:*"
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		// Cached runs are keyed by content hash, so one document maps to
		// chunks:<hash>:* across all option fingerprints.
		pattern = cache.ChunkRunKey(cache.ContentHash(string(data)), "*")
	}

	if err := redisCache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("invalidation failed: %w", err)
	}

	fmt.Printf("Dropped cached chunk runs matching %s\n", pattern)
	return nil
}
