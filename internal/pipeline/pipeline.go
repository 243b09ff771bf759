package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stylesheet-ai/xsltchunk/internal/cache"
	"github.com/stylesheet-ai/xsltchunk/internal/chunker"
	"github.com/stylesheet-ai/xsltchunk/internal/config"
	"github.com/stylesheet-ai/xsltchunk/internal/document"
	"github.com/stylesheet-ai/xsltchunk/internal/metrics"
	"github.com/stylesheet-ai/xsltchunk/internal/security"
)

const cacheTTL = 24 * time.Hour

// Runner chunks every stylesheet under a root directory. Cache and Metrics
// are optional; leave them nil to run without Redis or a metrics log.
type Runner struct {
	Cache       *cache.RedisCache
	Metrics     *metrics.Logger
	Concurrency int

	cfg       *config.Config
	assembler *chunker.Assembler
	detector  *security.SecretDetector
	logger    *slog.Logger
}

// NewRunner creates a runner from configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		Concurrency: 4,
		cfg:         cfg,
		assembler:   chunker.New(),
		detector:    security.NewSecretDetector(),
		logger:      slog.Default(),
	}
}

// Result contains statistics from a pipeline run.
type Result struct {
	FilesProcessed int
	ChunksCreated  int
	CacheHits      int
	Chunks         []chunker.Chunk
	Errors         []error
}

// OptionsFromConfig maps the chunking section of a config to engine options.
func OptionsFromConfig(cfg *config.Config) chunker.Options {
	return chunker.Options{
		MaxChunkTokens:         cfg.Chunking.MaxTokens,
		MinChunkTokens:         cfg.Chunking.MinTokens,
		OverlapTargetLines:     cfg.Chunking.OverlapLines,
		OverlapToleranceTokens: cfg.Chunking.OverlapToleranceTokens,
	}
}

// Run chunks all matching stylesheets under root. Files are processed in
// parallel but the returned chunk list follows walk order, so a run is
// reproducible.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	opts := OptionsFromConfig(r.cfg)
	walker := NewWalker(r.cfg.Files.Include, r.cfg.Files.Exclude)

	var paths []string
	if err := walker.Walk(root, func(path string) error {
		paths = append(paths, path)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}

	result := &Result{}
	perFile := make([][]chunker.Chunk, len(paths))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))

	for i, path := range paths {
		g.Go(func() error {
			chunks, hit, err := r.ChunkFile(ctx, path, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("chunk %s: %w", path, err))
				return nil // Continue with other files
			}
			perFile[i] = chunks
			result.FilesProcessed++
			if hit {
				result.CacheHits++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, chunks := range perFile {
		result.Chunks = append(result.Chunks, chunks...)
	}
	result.ChunksCreated = len(result.Chunks)

	return result, nil
}

// ChunkFile chunks a single stylesheet, consulting the cache when one is
// configured. The engine is deterministic, so content plus the option
// fingerprint fully keys a cached run.
func (r *Runner) ChunkFile(ctx context.Context, path string, opts chunker.Options) ([]chunker.Chunk, bool, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		r.logError("read", path, err)
		return nil, false, err
	}
	text := string(data)

	var key string
	if r.Cache != nil {
		key = cache.ChunkRunKey(cache.ContentHash(text), opts.Fingerprint())
		if val, err := r.Cache.Get(ctx, key); err == nil && val != "" {
			var chunks []chunker.Chunk
			if err := json.Unmarshal([]byte(val), &chunks); err == nil {
				r.logger.Debug("cache hit", "path", path, "chunks", len(chunks))
				r.logChunkRun(path, chunks, time.Since(start), true)
				return chunks, true, nil
			}
		}
	}

	doc, err := document.New(path, text)
	if err != nil {
		r.logError("chunk", path, err)
		return nil, false, err
	}

	chunks, err := r.assembler.Chunk(doc, opts)
	if err != nil {
		r.logError("chunk", path, err)
		return nil, false, err
	}

	for i := range chunks {
		chunks[i].HasSecrets = r.detector.HasSecrets(chunks[i].Content)
	}

	if r.Cache != nil {
		if data, err := json.Marshal(chunks); err == nil {
			if err := r.Cache.Set(ctx, key, string(data), cacheTTL); err != nil {
				r.logger.Warn("cache write failed", "path", path, "error", err)
			}
		}
	}

	r.logger.Info("chunked stylesheet",
		"path", path, "lines", doc.LineCount(), "chunks", len(chunks))
	r.logChunkRun(path, chunks, time.Since(start), false)

	return chunks, false, nil
}

func (r *Runner) logChunkRun(path string, chunks []chunker.Chunk, elapsed time.Duration, cacheHit bool) {
	if r.Metrics == nil {
		return
	}

	var lines, units, fallbacks, exceeded int
	parents := make(map[string]bool)
	for _, c := range chunks {
		if c.EndLine > lines {
			lines = c.EndLine
		}
		switch {
		case c.Kind == chunker.KindUnit:
			units++
		case c.ParentUnitID != "":
			parents[c.ParentUnitID] = true
		}
		if c.IsBoundaryFallback {
			fallbacks++
		}
		if c.IsBudgetExceeded {
			exceeded++
		}
	}
	units += len(parents)

	r.Metrics.LogChunkRun(path, lines, units, len(chunks), fallbacks, exceeded,
		elapsed.Milliseconds(), cacheHit)
}

func (r *Runner) logError(operation, path string, err error) {
	if r.Metrics != nil {
		r.Metrics.LogError(operation, path, err.Error())
	}
}
