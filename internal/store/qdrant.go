// Package store provides vector storage for emitted chunks.
package store

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/stylesheet-ai/xsltchunk/internal/chunker"
)

// QdrantStore handles chunk storage in Qdrant so downstream consumers can
// retrieve chunks by similarity or by metadata.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant store.
func NewQdrantStore(url string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &QdrantStore{client: client}, nil
}

// Close closes the Qdrant connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// EnsureCollection creates collection if it doesn't exist.
func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// DeleteCollection removes a collection.
func (s *QdrantStore) DeleteCollection(ctx context.Context, name string) error {
	return s.client.DeleteCollection(ctx, name)
}

// UpsertChunks inserts or updates chunks with their vectors.
func (s *QdrantStore) UpsertChunks(ctx context.Context, collection string, chunks []chunker.Chunk, vectors [][]float32) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(chunkPayload(c)),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})

	return err
}

// Search performs vector similarity search over stored chunks.
func (s *QdrantStore) Search(ctx context.Context, collection string, vector []float32, limit int, filter map[string]interface{}) ([]chunker.Chunk, error) {
	var qdrantFilter *qdrant.Filter
	if filter != nil {
		qdrantFilter = buildFilter(filter)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         qdrantFilter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	chunks := make([]chunker.Chunk, len(results))
	for i, r := range results {
		chunks[i] = payloadToChunk(r.Id.GetUuid(), r.Payload)
	}

	return chunks, nil
}

// ChunksByParent retrieves the sub-chunks of one unit by payload filter.
// They come back unordered; consumers sort by sequence_index to
// reconstruct the unit.
func (s *QdrantStore) ChunksByParent(ctx context.Context, collection, parentUnitID string, limit int) ([]chunker.Chunk, error) {
	return s.SearchByFilter(ctx, collection, map[string]interface{}{
		"parent_unit_id": parentUnitID,
	}, limit)
}

// SearchByFilter searches using payload filters without vector similarity.
func (s *QdrantStore) SearchByFilter(ctx context.Context, collection string, filter map[string]interface{}, limit int) ([]chunker.Chunk, error) {
	qdrantFilter := buildFilter(filter)

	results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Filter:         qdrantFilter,
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	chunks := make([]chunker.Chunk, len(results))
	for i, r := range results {
		chunks[i] = payloadToChunk(r.Id.GetUuid(), r.Payload)
	}

	return chunks, nil
}

// CollectionInfo contains collection metadata.
type CollectionInfo struct {
	PointsCount int64
	VectorSize  int
	Status      string
}

// CollectionInfo gets collection metadata.
func (s *QdrantStore) CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, err
	}

	vectorSize := 0
	if params := info.Config.GetParams(); params != nil {
		if vecConfig := params.GetVectorsConfig(); vecConfig != nil {
			if vecParams := vecConfig.GetParams(); vecParams != nil {
				vectorSize = int(vecParams.GetSize())
			}
		}
	}

	pointsCount := int64(0)
	if info.PointsCount != nil {
		pointsCount = int64(*info.PointsCount)
	}

	return &CollectionInfo{
		PointsCount: pointsCount,
		VectorSize:  vectorSize,
		Status:      info.Status.String(),
	}, nil
}

func chunkPayload(c chunker.Chunk) map[string]interface{} {
	return map[string]interface{}{
		"kind":                  string(c.Kind),
		"source":                c.Source,
		"start_line":            c.StartLine,
		"end_line":              c.EndLine,
		"content":               c.Content,
		"token_estimate":        c.TokenEstimate,
		"overlap_with_previous": c.OverlapWithPrevious,
		"parent_unit_id":        c.ParentUnitID,
		"sequence_index":        c.SequenceIndex,
		"unit_label":            c.UnitLabel,
		"is_boundary_fallback":  c.IsBoundaryFallback,
		"is_budget_exceeded":    c.IsBudgetExceeded,
		"has_secrets":           c.HasSecrets,
	}
}

func buildFilter(filter map[string]interface{}) *qdrant.Filter {
	var must []*qdrant.Condition

	for key, value := range filter {
		switch v := value.(type) {
		case string:
			must = append(must, &qdrant.Condition{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key: key,
						Match: &qdrant.Match{
							MatchValue: &qdrant.Match_Keyword{Keyword: v},
						},
					},
				},
			})
		case bool:
			must = append(must, &qdrant.Condition{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key: key,
						Match: &qdrant.Match{
							MatchValue: &qdrant.Match_Boolean{Boolean: v},
						},
					},
				},
			})
		}
	}

	return &qdrant.Filter{Must: must}
}

func payloadToChunk(id string, payload map[string]*qdrant.Value) chunker.Chunk {
	getString := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	getInt := func(key string) int {
		if v, ok := payload[key]; ok {
			return int(v.GetIntegerValue())
		}
		return 0
	}
	getBool := func(key string) bool {
		if v, ok := payload[key]; ok {
			return v.GetBoolValue()
		}
		return false
	}

	return chunker.Chunk{
		ID:                  id,
		Kind:                chunker.ChunkKind(getString("kind")),
		Source:              getString("source"),
		StartLine:           getInt("start_line"),
		EndLine:             getInt("end_line"),
		Content:             getString("content"),
		TokenEstimate:       getInt("token_estimate"),
		OverlapWithPrevious: getInt("overlap_with_previous"),
		ParentUnitID:        getString("parent_unit_id"),
		SequenceIndex:       getInt("sequence_index"),
		UnitLabel:           getString("unit_label"),
		IsBoundaryFallback:  getBool("is_boundary_fallback"),
		IsBudgetExceeded:    getBool("is_budget_exceeded"),
		HasSecrets:          getBool("has_secrets"),
	}
}
