package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/vector"
	"github.com/newslens/backend/pkg/logger"
)

// Store is the remote Searcher backend. It mirrors the in-process exact
// index: one vector per corpus document, L2 metric, ascending distances.
type Store struct {
	client         client.Client
	collectionName string
	dim            int
}

func NewStore(endpoint, collectionName string, dim int) (*Store, error) {
	c, err := client.NewGrpcClient(context.Background(), endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	logger.Info("Milvus store initialized",
		zap.String("endpoint", endpoint),
		zap.String("collection", collectionName),
	)

	return &Store{client: c, collectionName: collectionName, dim: dim}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// EnsureCollection creates and loads the corpus collection if it is missing.
func (s *Store) EnsureCollection(ctx context.Context) error {
	has, err := s.client.HasCollection(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if has {
		logger.Info("Collection already exists", zap.String("collection", s.collectionName))
		return nil
	}

	schema := &entity.Schema{
		CollectionName: s.collectionName,
		Description:    "Corpus document embeddings",
		Fields: []*entity.Field{
			{
				Name:       "doc_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", s.dim),
				},
			},
		},
	}

	err = s.client.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
	if err != nil {
		return fmt.Errorf("failed to create index params: %w", err)
	}
	err = s.client.CreateIndex(ctx, s.collectionName, "embedding", idx, false)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = s.client.LoadCollection(ctx, s.collectionName, false)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	logger.Info("Collection created and loaded", zap.String("collection", s.collectionName))

	return nil
}

// UpsertCorpus writes the precomputed corpus embeddings. Called once at
// startup; the corpus never changes afterwards.
func (s *Store) UpsertCorpus(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("id/vector count mismatch: %d vs %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return nil
	}

	_, err := s.client.Upsert(
		ctx,
		s.collectionName,
		"",
		entity.NewColumnVarChar("doc_id", ids),
		entity.NewColumnFloatVector("embedding", s.dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert corpus vectors: %w", err)
	}

	err = s.client.Flush(ctx, s.collectionName, false)
	if err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	logger.Info("Corpus vectors upserted", zap.Int("count", len(ids)))

	return nil
}

// Search implements vector.Searcher against the remote collection.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]vector.Hit, error) {
	sp, _ := entity.NewIndexIvfFlatSearchParam(16)

	searchResult, err := s.client.Search(
		ctx,
		s.collectionName,
		[]string{},
		"",
		[]string{"doc_id"},
		[]entity.Vector{entity.FloatVector(query)},
		"embedding",
		entity.L2,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]vector.Hit, 0, k)
	for _, sr := range searchResult {
		idCol := sr.Fields.GetColumn("doc_id")
		for i := 0; i < sr.ResultCount; i++ {
			id, err := idCol.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("failed to read doc_id: %w", err)
			}
			hits = append(hits, vector.Hit{DocID: id, Distance: sr.Scores[i]})
		}
	}

	logger.Debug("Milvus search completed",
		zap.Int("topK", k),
		zap.Int("results", len(hits)),
	)

	return hits, nil
}
