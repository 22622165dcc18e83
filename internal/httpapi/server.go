// Package httpapi exposes the Query Service over HTTP (spec.md §4.5):
// health, search, summarize (streamed via SSE), and config introspection.
// Routing follows the teacher's Go 1.22+ http.ServeMux method-pattern style.
package httpapi

import (
	"net/http"
	"time"

	"vecsearch/internal/config"
	"vecsearch/internal/rag/service"
)

// Server adapts a service.Service to HTTP.
type Server struct {
	service *service.Service
	cfg     config.Config
	mux     *http.ServeMux
}

// NewServer constructs a Server and registers its routes.
func NewServer(svc *service.Service, cfg config.Config) *Server {
	s := &Server{service: svc, cfg: cfg, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("POST /summarize", s.handleSummarize)
	s.mux.HandleFunc("GET /config", s.handleConfig)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// NewHTTPServer wraps Server in an *http.Server whose read deadline is
// REQUEST_TIMEOUT_SECONDS, whose write deadline is twice that, and whose
// idle timeout is a fixed 60 seconds.
func NewHTTPServer(addr string, svc *service.Service, cfg config.Config) *http.Server {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	return &http.Server{
		Addr:         addr,
		Handler:      NewServer(svc, cfg),
		ReadTimeout:  timeout,
		WriteTimeout: timeout * 2, // summarize streams longer than a single round trip
		IdleTimeout:  60 * time.Second,
	}
}
