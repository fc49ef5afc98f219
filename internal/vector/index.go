package vector

import (
	"context"
	"fmt"
	"sort"
)

// Hit is one nearest-neighbor match: a document id and its squared Euclidean
// distance from the query vector.
type Hit struct {
	DocID    string
	Distance float32
}

// Searcher finds the k nearest corpus vectors to a query embedding, ordered
// by ascending distance. Implementations: the in-process exact Index below,
// and the milvus-backed Store for deployments with a remote collection.
type Searcher interface {
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)
}

// Index is an exact flat index over the corpus embeddings. The corpus is
// static and small, so a full scan per search is fine; a production-scale
// deployment swaps in the milvus backend instead.
type Index struct {
	ids     []string
	vectors [][]float32
	dim     int
}

// Build creates an Index from parallel id/vector slices. Every vector must
// have the same dimension; insertion order is preserved and breaks distance
// ties during search.
func Build(ids []string, vectors [][]float32) (*Index, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("id/vector count mismatch: %d vs %d", len(ids), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot build index from empty corpus")
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}

	return &Index{ids: ids, vectors: vectors, dim: dim}, nil
}

// Dimension returns the dimension the index was built with.
func (idx *Index) Dimension() int {
	return idx.dim
}

// Size returns the number of indexed vectors.
func (idx *Index) Size() int {
	return len(idx.ids)
}

// Search returns the k lowest-distance entries in ascending order under
// squared Euclidean distance. Ties keep corpus insertion order. If k exceeds
// the corpus size, every entry is returned.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), idx.dim)
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	hits := make([]Hit, len(idx.ids))
	for i, v := range idx.vectors {
		hits[i] = Hit{DocID: idx.ids[i], Distance: squaredL2(query, v)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
