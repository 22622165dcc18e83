// Package queryclient implements the Query Client (spec.md §4.4): embeds a
// query string, asks the managed ANN index (here, a databases.VectorStore
// backed by Qdrant or, in tests, an in-memory store) for nearest neighbors,
// and converts the index's cosine similarity into a bounded score.
package queryclient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vecsearch/internal/persistence/databases"
	"vecsearch/internal/rag/embedder"
	"vecsearch/internal/rag/types"
)

// Config carries the construction parameters spec.md §4.4 names:
// project/location identify the embedding call's model backend, and
// endpoint_id/deployed_index_id identify the ANN index (mapped onto a
// Qdrant DSN and collection name — see SPEC_FULL.md §4).
type Config struct {
	Project         string
	Location        string
	EndpointID      string
	DeployedIndexID string
}

// QueryClient is the online nearest-neighbor lookup path: embed query text,
// search the index, score the matches.
type QueryClient struct {
	cfg   Config
	embed *embedder.Embedder
	store databases.VectorStore

	lastLatencyMs float64
}

// New constructs a QueryClient over an already-configured Embedder and
// VectorStore. The Embedder supplies query-time embeddings; the VectorStore
// is the ANN backend the embeddings are searched against.
func New(cfg Config, embed *embedder.Embedder, store databases.VectorStore) *QueryClient {
	return &QueryClient{cfg: cfg, embed: embed, store: store}
}

// Query embeds text, searches the index for its topK nearest neighbors, and
// returns them as SearchMatch values sorted by descending score. Content
// and metadata hydration from a document store is out of scope (spec.md
// §4.4 Non-goals); Content is always "" and Metadata carries only whatever
// the ANN index itself stored alongside the vector.
//
// Both backends (memory_vector.go and qdrant_vector.go's default cosine
// metric) report VectorResult.Score as a cosine similarity in [-1, 1], not
// a raw distance, so it is first converted via distance = 1 - similarity
// (clamped to a minimum of 0) before score = 1/(1 + distance). This keeps
// score monotonically increasing in similarity: identical vectors (distance
// 0) score 1.0, orthogonal vectors (distance 1) score 0.5, opposite vectors
// (distance 2) score ~0.33.
func (q *QueryClient) Query(ctx context.Context, text string, topK int) ([]types.SearchMatch, error) {
	if text == "" {
		return nil, fmt.Errorf("queryclient: query text must not be empty")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("queryclient: top_k must be positive, got %d", topK)
	}

	start := time.Now()
	defer func() {
		q.lastLatencyMs = float64(time.Since(start)) / float64(time.Millisecond)
	}()

	vectors, err := q.embed.Embed(ctx, []types.TextChunk{{
		ChunkID: "query",
		Content: text,
	}})
	if err != nil {
		return nil, fmt.Errorf("queryclient: embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("queryclient: expected exactly one query embedding, got %d", len(vectors))
	}

	hits, err := q.store.SimilaritySearch(ctx, vectors[0].Embedding, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("queryclient: similarity search: %w", err)
	}

	matches := make([]types.SearchMatch, 0, len(hits))
	for _, hit := range hits {
		distance := 1.0 - hit.Score
		if distance < 0 {
			distance = 0
		}
		score := 1.0 / (1.0 + distance)
		md := make(map[string]any, len(hit.Metadata))
		for k, v := range hit.Metadata {
			md[k] = v
		}
		matches = append(matches, types.SearchMatch{
			ChunkID:  hit.ID,
			Score:    score,
			Content:  "",
			Metadata: md,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

// LastQueryLatencyMs returns the wall-clock duration, in milliseconds, of
// the most recently completed Query call (embed + search combined). Zero
// before any query has been made.
func (q *QueryClient) LastQueryLatencyMs() float64 {
	return q.lastLatencyMs
}
