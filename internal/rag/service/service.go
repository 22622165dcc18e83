// Package service orchestrates the Query Service's two request paths
// (spec.md §4.5): Search (cache-checked nearest-neighbor lookup) and
// Summarize (streamed generative summarization).
package service

import (
	"context"
	"fmt"
	"time"

	"vecsearch/internal/rag/cache"
	"vecsearch/internal/rag/queryclient"
	"vecsearch/internal/rag/summarizer"
	"vecsearch/internal/rag/types"
)

// Limits bounds the Search request's top_k parameter, sourced from
// DEFAULT_TOP_K / MAX_TOP_K (spec.md §6).
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

// SearchResult is the outcome of a Search call: the ranked matches plus the
// request-level metadata spec.md §6 requires in the HTTP response
// (cache_hit, latency_ms).
type SearchResult struct {
	Matches   []types.SearchMatch
	CacheHit  bool
	LatencyMs float64
}

// Service wires the Query Client, cache, and Summarizer into the request
// handling spec.md §4.5.2 and §4.5.3 describe.
type Service struct {
	query   *queryclient.QueryClient
	cache   *cache.Cache
	summary *summarizer.Summarizer
	limits  Limits
	logger  Logger
	metrics Metrics
	clock   Clock
}

// New constructs a Service. metrics/clock may be nil, in which case
// NoopMetrics and SystemClock are used respectively; logger may be nil and
// is stored as given.
func New(query *queryclient.QueryClient, c *cache.Cache, summary *summarizer.Summarizer, limits Limits, logger Logger, metrics Metrics, clock Clock) *Service {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{query: query, cache: c, summary: summary, limits: limits, logger: logger, metrics: metrics, clock: clock}
}

// Search implements spec.md §4.5.2's state machine: validate the request,
// check the cache, fall through to the Query Client on a miss, and cache
// the result before returning it. LatencyMs covers the whole call
// (cache lookup included), so a cache hit reports a near-zero latency.
func (s *Service) Search(ctx context.Context, q string, topK int) (SearchResult, error) {
	if q == "" {
		return SearchResult{}, &ValidationError{Reason: "q must not be empty"}
	}
	if topK == 0 {
		topK = s.limits.DefaultTopK
	}
	if topK <= 0 || (s.limits.MaxTopK > 0 && topK > s.limits.MaxTopK) {
		return SearchResult{}, &ValidationError{Reason: fmt.Sprintf("top_k must be between 1 and %d, got %d", s.limits.MaxTopK, topK)}
	}

	start := s.clock.Now()
	key := cache.Key(q, topK)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.metrics.IncCounter("search_cache_hit", nil)
			latencyMs := float64(s.clock.Now().Sub(start)) / float64(time.Millisecond)
			return SearchResult{Matches: hit, CacheHit: true, LatencyMs: latencyMs}, nil
		}
	}
	s.metrics.IncCounter("search_cache_miss", nil)

	matches, err := s.query.Query(ctx, q, topK)
	if err != nil {
		if ctx.Err() != nil {
			return SearchResult{}, &TimeoutError{Reason: "search request timed out"}
		}
		return SearchResult{}, &DependencyError{Reason: "query client failed", Err: err}
	}

	if s.cache != nil {
		s.cache.Set(key, matches)
	}
	latencyMs := float64(s.clock.Now().Sub(start)) / float64(time.Millisecond)
	s.metrics.ObserveHistogram("search_latency_ms", latencyMs, nil)
	return SearchResult{Matches: matches, CacheHit: false, LatencyMs: latencyMs}, nil
}

// Summarize implements spec.md §4.5.3: stream a generative summary of
// content to sink, translating generator failures into DependencyError.
func (s *Service) Summarize(ctx context.Context, content string, maxTokens int, sink summarizer.Sink) error {
	if content == "" {
		return &ValidationError{Reason: "content must not be empty"}
	}
	err := s.summary.Summarize(ctx, content, maxTokens, sink)
	if err != nil {
		if ctx.Err() != nil {
			return &TimeoutError{Reason: "summarize request timed out"}
		}
		return &DependencyError{Reason: "summarizer failed", Err: err}
	}
	return nil
}
