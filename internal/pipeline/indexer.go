package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stylesheet-ai/xsltchunk/internal/chunker"
	"github.com/stylesheet-ai/xsltchunk/internal/config"
	"github.com/stylesheet-ai/xsltchunk/internal/embedding"
	"github.com/stylesheet-ai/xsltchunk/internal/store"
)

const upsertBatchSize = 100

// Indexer runs the full pipeline: chunk stylesheets, generate embeddings,
// and store the chunks for retrieval.
type Indexer struct {
	runner   *Runner
	embedder *embedding.VoyageClient
	store    *store.QdrantStore
	logger   *slog.Logger
}

// NewIndexer creates an indexer from configuration.
func NewIndexer(cfg *config.Config, runner *Runner, voyageKey string) (*Indexer, error) {
	qdrantStore, err := store.NewQdrantStore(cfg.Storage.QdrantURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &Indexer{
		runner:   runner,
		embedder: embedding.NewVoyageClient(voyageKey, cfg.Embedding.Model),
		store:    qdrantStore,
		logger:   slog.Default(),
	}, nil
}

// Close releases the store connection.
func (idx *Indexer) Close() error {
	return idx.store.Close()
}

// IndexResult contains statistics from an indexing run.
type IndexResult struct {
	FilesProcessed int
	ChunksStored   int
	CacheHits      int
	Errors         []error
}

// Index chunks every stylesheet under root, embeds the chunks and upserts
// them into the collection.
func (idx *Indexer) Index(ctx context.Context, root, collection string) (*IndexResult, error) {
	start := time.Now()

	if err := idx.store.EnsureCollection(ctx, collection, idx.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	run, err := idx.runner.Run(ctx, root)
	if err != nil {
		return nil, err
	}

	result := &IndexResult{
		FilesProcessed: run.FilesProcessed,
		CacheHits:      run.CacheHits,
		Errors:         run.Errors,
	}

	if len(run.Chunks) == 0 {
		return result, nil
	}

	idx.logger.Info("generating embeddings", "chunks", len(run.Chunks))

	texts := make([]string, len(run.Chunks))
	for i, c := range run.Chunks {
		texts[i] = buildEmbeddingText(c)
	}

	vectors, err := idx.embedder.EmbedBatched(ctx, texts, 64)
	if err != nil {
		return result, fmt.Errorf("embedding failed: %w", err)
	}

	idx.logger.Info("storing chunks", "count", len(run.Chunks))

	for i := 0; i < len(run.Chunks); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(run.Chunks))
		if err := idx.store.UpsertChunks(ctx, collection, run.Chunks[i:end], vectors[i:end]); err != nil {
			return result, fmt.Errorf("upsert failed: %w", err)
		}
		result.ChunksStored = end
	}

	if idx.runner.Metrics != nil {
		idx.runner.Metrics.LogIndexRun(root, result.FilesProcessed, len(run.Chunks),
			result.ChunksStored, time.Since(start).Milliseconds())
	}

	return result, nil
}

// buildEmbeddingText prefixes chunk content with its provenance so the
// vector carries which stylesheet and unit the text came from.
func buildEmbeddingText(c chunker.Chunk) string {
	var parts []string

	header := c.Source
	if c.UnitLabel != "" {
		header += " :: " + c.UnitLabel
	}
	parts = append(parts, header, c.Content)

	return strings.Join(parts, "\n\n")
}
