package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildValidatesInput(t *testing.T) {
	_, err := Build([]string{"a"}, [][]float32{{1, 0}, {0, 1}})
	assert.Error(t, err, "mismatched id/vector counts must be rejected")

	_, err = Build(nil, nil)
	assert.Error(t, err, "empty corpus must be rejected")

	_, err = Build([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1, 2}})
	assert.Error(t, err, "mixed dimensions must be rejected")
}

func TestSearchOrdersByAscendingDistance(t *testing.T) {
	idx, err := Build(
		[]string{"far", "near", "mid"},
		[][]float32{{10, 0}, {1, 0}, {5, 0}},
	)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "near", hits[0].DocID)
	assert.Equal(t, "mid", hits[1].DocID)
	assert.Equal(t, "far", hits[2].DocID)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
	assert.LessOrEqual(t, hits[1].Distance, hits[2].Distance)
}

func TestSearchBreaksTiesByInsertionOrder(t *testing.T) {
	idx, err := Build(
		[]string{"second", "first", "third"},
		[][]float32{{1, 1}, {1, 1}, {1, 1}},
	)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		hits, err := idx.Search(context.Background(), []float32{0, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first", "third"},
			[]string{hits[0].DocID, hits[1].DocID, hits[2].DocID})
	}
}

func TestSearchKLargerThanCorpus(t *testing.T) {
	idx, err := Build([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchRejectsBadArguments(t *testing.T) {
	idx, err := Build([]string{"a"}, [][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 2, 3}, 1)
	assert.Error(t, err, "query dimension must match the index")

	_, err = idx.Search(context.Background(), []float32{1, 0}, 0)
	assert.Error(t, err, "k below 1 must be rejected")
}

func TestSquaredL2(t *testing.T) {
	assert.InDelta(t, 25.0, squaredL2([]float32{0, 3}, []float32{4, 0}), 1e-6)
	assert.InDelta(t, 0.0, squaredL2([]float32{1, 2}, []float32{1, 2}), 1e-6)
}
