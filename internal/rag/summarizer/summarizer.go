// Package summarizer implements the Query Service's /summarize endpoint
// (spec.md §4.5.3): stream a generative model's summary of supplied content
// token-by-token, honoring cancellation and surfacing model errors mid-stream.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Chunk is one piece of a streamed summary: either a text delta or, on the
// final chunk, Done=true with no further deltas to follow.
type Chunk struct {
	Delta string
	Done  bool
}

// Sink receives streamed chunks. Implementations must not block the caller
// for long (the SSE handler in internal/httpapi writes and flushes per call).
type Sink func(Chunk) error

// Generator abstracts the managed generative model so the streaming loop is
// testable without a live model.
type Generator interface {
	// Stream must invoke emit once per generated text delta, in order, and
	// return when the model's response is exhausted or ctx is canceled.
	Stream(ctx context.Context, prompt string, emit func(delta string) error) error
}

// Config controls prompt construction.
type Config struct {
	Model     string
	MaxTokens int // default 150, per spec.md §6
}

// DefaultConfig returns spec.md's default max_tokens with the given model.
func DefaultConfig(model string) Config {
	return Config{Model: model, MaxTokens: 150}
}

// Summarizer streams a generative model's summary of content to sink.
type Summarizer struct {
	cfg Config
	gen Generator
}

// New constructs a Summarizer backed by the given Generator.
func New(cfg Config, gen Generator) *Summarizer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	return &Summarizer{cfg: cfg, gen: gen}
}

// Summarize streams a summary of content to sink, respecting maxTokens (0
// falls back to the Summarizer's configured default). It calls sink with a
// final Chunk{Done: true} once the model's response is exhausted. Returns
// the error the model reported, if any, without calling sink again.
func (s *Summarizer) Summarize(ctx context.Context, content string, maxTokens int, sink Sink) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("summarizer: content must not be empty")
	}
	if maxTokens <= 0 {
		maxTokens = s.cfg.MaxTokens
	}
	prompt := buildPrompt(content, maxTokens)

	err := s.gen.Stream(ctx, prompt, func(delta string) error {
		if delta == "" {
			return nil
		}
		return sink(Chunk{Delta: delta})
	})
	if err != nil {
		return fmt.Errorf("summarizer: stream: %w", err)
	}
	return sink(Chunk{Done: true})
}

func buildPrompt(content string, maxTokens int) string {
	return fmt.Sprintf(
		"Summarize the following content in no more than %d tokens. Be concise and factual.\n\n%s",
		maxTokens, content,
	)
}

// GenaiGenerator adapts google.golang.org/genai's streaming content
// generation to the Generator interface, matching spec.md §6's SUMMARY_MODEL
// (default "gemini-1.5-flash").
type GenaiGenerator struct {
	Client *genai.Client
	Model  string
}

// Stream calls Models.GenerateContentStream and forwards each non-empty
// text part to emit, stopping early if emit or the stream itself errors.
func (g *GenaiGenerator) Stream(ctx context.Context, prompt string, emit func(delta string) error) error {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	stream := g.Client.Models.GenerateContentStream(ctx, g.Model, contents, nil)
	for resp, err := range stream {
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			if err := emit(part.Text); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}
