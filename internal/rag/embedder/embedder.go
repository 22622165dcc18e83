// Package embedder turns TextChunks into Vectors via the managed embedding
// model (spec.md §4.2). Retries transient failures with exponential
// backoff; fails atomically for the whole batch after exhausting retries.
package embedder

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"vecsearch/internal/rag/types"
)

// EmbeddingError is returned when the embedding model cannot be reached
// after the initial attempt plus Config.MaxRetries retries.
type EmbeddingError struct {
	Batch int // index of the failing batch
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding batch %d failed after retries: %v", e.Batch, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Config controls batching, retry policy, and the expected embedding shape.
type Config struct {
	BatchSize  int // default 100
	MaxRetries int // default 3
	Dimension  int // D; embeddings not matching this are rejected
	ModelName  string
}

// DefaultConfig returns the spec-mandated defaults for everything except
// the deployment-specific Dimension/ModelName.
func DefaultConfig(dimension int, modelName string) Config {
	return Config{BatchSize: 100, MaxRetries: 3, Dimension: dimension, ModelName: modelName}
}

// ModelCaller abstracts the managed embedding API so the retry/backoff loop
// is independently testable without a live model.
type ModelCaller interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder converts TextChunks to Vectors, batching calls to a ModelCaller
// and retrying transient failures.
type Embedder struct {
	cfg    Config
	caller ModelCaller
	sleep  func(time.Duration) // overridable in tests
}

// New constructs an Embedder backed by the given ModelCaller.
func New(cfg Config, caller ModelCaller) *Embedder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	return &Embedder{cfg: cfg, caller: caller, sleep: time.Sleep}
}

// Embed implements spec.md §4.2's algorithm: partition into batches of at
// most cfg.BatchSize, call the model synchronously per batch, retry with
// 2^k second backoff on transient failure, validate dimensionality, and
// assemble Vectors preserving input order.
func (e *Embedder) Embed(ctx context.Context, chunks []types.TextChunk) ([]types.Vector, error) {
	if len(chunks) == 0 {
		return []types.Vector{}, nil
	}
	out := make([]types.Vector, 0, len(chunks))
	for batchStart := 0; batchStart < len(chunks); batchStart += e.cfg.BatchSize {
		batchEnd := batchStart + e.cfg.BatchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}
		batch := chunks[batchStart:batchEnd]
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		embeddings, err := e.callWithRetry(ctx, batchStart/e.cfg.BatchSize, texts)
		if err != nil {
			return nil, err
		}
		if len(embeddings) != len(batch) {
			return nil, &EmbeddingError{Batch: batchStart / e.cfg.BatchSize, Err: fmt.Errorf("model returned %d embeddings for %d inputs", len(embeddings), len(batch))}
		}
		now := time.Now()
		for i, c := range batch {
			v, err := types.NewVector(c.ChunkID, embeddings[i], e.cfg.ModelName, e.cfg.Dimension, now)
			if err != nil {
				return nil, &EmbeddingError{Batch: batchStart / e.cfg.BatchSize, Err: err}
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (e *Embedder) callWithRetry(ctx context.Context, batchIdx int, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		embeddings, err := e.caller.EmbedBatch(ctx, texts)
		if err == nil {
			return embeddings, nil
		}
		lastErr = err
		if attempt == e.cfg.MaxRetries {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			return nil, &EmbeddingError{Batch: batchIdx, Err: ctx.Err()}
		default:
		}
		e.sleep(wait)
	}
	return nil, &EmbeddingError{Batch: batchIdx, Err: lastErr}
}

// GenaiCaller adapts google.golang.org/genai's embedding endpoint to
// ModelCaller, matching the managed text-embedding model in spec.md §6
// (EMBEDDING_MODEL, default "text-embedding-004").
type GenaiCaller struct {
	Client *genai.Client
	Model  string
}

// EmbedBatch calls Models.EmbedContent with one genai.Content per input
// text and returns the raw float32 vectors in input order.
func (g *GenaiCaller) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	resp, err := g.Client.Models.EmbedContent(ctx, g.Model, contents, nil)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}
