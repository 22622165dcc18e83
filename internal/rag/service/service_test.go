package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vecsearch/internal/persistence/databases"
	"vecsearch/internal/rag/cache"
	"vecsearch/internal/rag/embedder"
	"vecsearch/internal/rag/queryclient"
	"vecsearch/internal/rag/summarizer"
)

type stubCaller struct{ vector []float32 }

func (s *stubCaller) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

type stubGenerator struct {
	deltas []string
	err    error
}

func (g *stubGenerator) Stream(_ context.Context, _ string, emit func(string) error) error {
	for _, d := range g.deltas {
		if err := emit(d); err != nil {
			return err
		}
	}
	return g.err
}

func newTestService(t *testing.T) (*Service, databases.VectorStore) {
	t.Helper()
	qvec := []float32{1, 0, 0}
	store := databases.NewMemoryVector(len(qvec))
	emb := embedder.New(embedder.DefaultConfig(len(qvec), "test-model"), &stubCaller{vector: qvec})
	qc := queryclient.New(queryclient.Config{Project: "p", Location: "l", EndpointID: "e", DeployedIndexID: "d"}, emb, store)
	c := cache.New(time.Minute, 100)
	sm := summarizer.New(summarizer.DefaultConfig("m"), &stubGenerator{deltas: []string{"ok"}})
	svc := New(qc, c, sm, Limits{DefaultTopK: 5, MaxTopK: 20}, nil, nil, nil)
	return svc, store
}

func TestSearch_ValidationErrorOnEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Search(context.Background(), "", 5)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestSearch_ValidationErrorOnTopKBeyondMax(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Search(context.Background(), "q", 1000)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestSearch_UsesDefaultTopKWhenZero(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "a", []float32{1, 0, 0}, nil))

	result, err := svc.Search(ctx, "q", 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	require.False(t, result.CacheHit)
}

func TestSearch_CacheHitSkipsQueryClient(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "a", []float32{1, 0, 0}, nil))

	first, err := svc.Search(ctx, "q", 5)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	// Remove the backing data; a cache hit should still return the first result.
	require.NoError(t, store.Delete(ctx, "a"))
	second, err := svc.Search(ctx, "q", 5)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Matches, second.Matches)
}

func TestSummarize_ValidationErrorOnEmptyContent(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Summarize(context.Background(), "", 0, func(summarizer.Chunk) error { return nil })
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestSummarize_DependencyErrorOnGeneratorFailure(t *testing.T) {
	qvec := []float32{1, 0}
	store := databases.NewMemoryVector(len(qvec))
	emb := embedder.New(embedder.DefaultConfig(len(qvec), "m"), &stubCaller{vector: qvec})
	qc := queryclient.New(queryclient.Config{}, emb, store)
	sm := summarizer.New(summarizer.DefaultConfig("m"), &stubGenerator{err: errors.New("model down")})
	svc := New(qc, cache.New(time.Minute, 10), sm, Limits{DefaultTopK: 5, MaxTopK: 20}, nil, nil, nil)

	err := svc.Summarize(context.Background(), "content", 0, func(summarizer.Chunk) error { return nil })
	var de *DependencyError
	require.True(t, errors.As(err, &de))
}

func TestSummarize_StreamsChunks(t *testing.T) {
	svc, _ := newTestService(t)
	var got []summarizer.Chunk
	err := svc.Summarize(context.Background(), "content", 0, func(c summarizer.Chunk) error {
		got = append(got, c)
		return nil
	})
	require.NoError(t, err)
	require.True(t, got[len(got)-1].Done)
}
