package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/newslens/backend/internal/cache/redis"
	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/embedding"
	"github.com/newslens/backend/internal/vector"
	"github.com/newslens/backend/pkg/logger"
	"github.com/newslens/backend/pkg/utils"
)

// Retriever answers "which documents ground this question" by embedding the
// question and running nearest-neighbor search over the corpus. It is a pure
// function of corpus and question, modulo embedder jitter, so ranked doc ids
// can be cached.
type Retriever struct {
	embedder *embedding.Embedder
	searcher vector.Searcher
	docsByID map[string]corpus.Document
	cache    *redis.Client
}

func New(embedder *embedding.Embedder, searcher vector.Searcher, docs []corpus.Document, cache *redis.Client) *Retriever {
	byID := make(map[string]corpus.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		docsByID: byID,
		cache:    cache,
	}
}

// Retrieve returns the top-k documents for a question, ranked by ascending
// distance. k must be >= 1; fewer documents come back only when k exceeds the
// corpus size.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]corpus.Document, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	cacheKey := utils.HashString(fmt.Sprintf("%s|%d", question, k))
	if ids, found, err := r.cache.GetEvidence(ctx, cacheKey); err != nil {
		logger.Warn("Evidence cache read failed", zap.Error(err))
	} else if found {
		if docs, ok := r.resolveDocs(ids); ok {
			return docs, nil
		}
	}

	queryVec := r.embedder.Embed(question, true, "")

	hits, err := r.searcher.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	ids := make([]string, 0, len(hits))
	docs := make([]corpus.Document, 0, len(hits))
	for _, hit := range hits {
		doc, ok := r.docsByID[hit.DocID]
		if !ok {
			return nil, fmt.Errorf("search returned unknown document id %q", hit.DocID)
		}
		ids = append(ids, hit.DocID)
		docs = append(docs, doc)
	}

	if err := r.cache.SetEvidence(ctx, cacheKey, ids); err != nil {
		logger.Warn("Evidence cache write failed", zap.Error(err))
	}

	logger.Debug("Documents retrieved",
		zap.String("question", question),
		zap.Int("k", k),
		zap.Strings("doc_ids", ids),
	)

	return docs, nil
}

// EmbedCorpus precomputes one embedding per corpus document, in corpus order.
func EmbedCorpus(embedder *embedding.Embedder, docs []corpus.Document) (ids []string, vectors [][]float32) {
	ids = make([]string, len(docs))
	vectors = make([][]float32, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		vectors[i] = embedder.Embed(d.Text, false, "")
	}
	return ids, vectors
}

func (r *Retriever) resolveDocs(ids []string) ([]corpus.Document, bool) {
	docs := make([]corpus.Document, 0, len(ids))
	for _, id := range ids {
		doc, ok := r.docsByID[id]
		if !ok {
			return nil, false
		}
		docs = append(docs, doc)
	}
	return docs, true
}
