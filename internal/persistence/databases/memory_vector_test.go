package databases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryVector_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryVector(3)
	require.NoError(t, store.Upsert(ctx, "a", []float32{1, 0, 0}, map[string]string{"k": "v"}))
	require.NoError(t, store.Upsert(ctx, "b", []float32{0, 1, 0}, nil))

	results, err := store.SimilaritySearch(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "a", results[0].ID)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestMemoryVector_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryVector(3)
	require.NoError(t, store.Upsert(ctx, "a", []float32{1, 0, 0}, nil))
	require.NoError(t, store.Delete(ctx, "a"))
	results, err := store.SimilaritySearch(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMemoryVector_TopKBeyondSize(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryVector(2)
	require.NoError(t, store.Upsert(ctx, "a", []float32{1, 0}, nil))
	results, err := store.SimilaritySearch(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestNewVectorStore_UnknownBackend(t *testing.T) {
	_, err := NewVectorStore("bogus", "", "", 4, "cosine")
	require.Error(t, err)
}
