package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vecsearch/internal/rag/summarizer"
)

// errorEnvelope is the body returned alongside a non-2xx status.
type errorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	respondJSON(w, status, errorEnvelope{Error: http.StatusText(status), Detail: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "search-api"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"api_url": fmt.Sprintf("http://localhost:%d", s.cfg.HTTPPort),
	})
}

type searchResponse struct {
	Results   []matchDTO `json:"results"`
	LatencyMs float64    `json:"latency_ms"`
	CacheHit  bool       `json:"cache_hit"`
}

type matchDTO struct {
	ChunkID  string         `json:"chunk_id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// handleSearch implements spec.md §6's GET /search?q=<string>&k=<int>.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	topK := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "bad request", Detail: "k must be an integer"})
			return
		}
		topK = k
	}

	ctx := r.Context()
	if s.cfg.RequestTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := s.service.Search(ctx, q, topK)
	if err != nil {
		respondError(w, err)
		return
	}

	dtos := make([]matchDTO, len(result.Matches))
	for i, m := range result.Matches {
		dtos[i] = matchDTO{ChunkID: m.ChunkID, Score: m.Score, Content: m.Content, Metadata: m.Metadata}
	}
	respondJSON(w, http.StatusOK, searchResponse{Results: dtos, LatencyMs: result.LatencyMs, CacheHit: result.CacheHit})
}

type summarizeRequest struct {
	Content   string `json:"content"`
	MaxTokens int    `json:"max_tokens"`
}

// handleSummarize streams a generative summary as Server-Sent Events: one
// unnamed "data: <chunk>" frame per token chunk, then a terminal
// "data: [DONE]" frame or an "event: error" frame.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "bad request", Detail: "request body must be valid JSON"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondJSON(w, http.StatusBadRequest, errorEnvelope{Error: "bad request", Detail: "content must not be empty"})
		return
	}

	sw, ok := newSSEWriter(w)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, errorEnvelope{Error: "internal error", Detail: "streaming not supported"})
		return
	}

	sink := func(c summarizer.Chunk) error {
		if c.Done {
			return sw.sendDone()
		}
		return sw.sendDelta(c.Delta)
	}

	if err := s.service.Summarize(r.Context(), req.Content, req.MaxTokens, sink); err != nil {
		_ = sw.sendError(err.Error())
		return
	}
}
