package httpapi

import (
	"fmt"
	"net/http"
)

// sseWriter streams Server-Sent Events for the /summarize endpoint
// (spec.md §4.5.3/§6's exact byte contract: "data: <chunk>\n\n" per token,
// terminated by the literal "data: [DONE]\n\n"; failures are
// "event: error\ndata: <msg>\n\n").
type sseWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &sseWriter{w: w, f: flusher}, true
}

func (s *sseWriter) sendDelta(delta string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", delta); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

func (s *sseWriter) sendDone() error {
	if _, err := fmt.Fprint(s.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

func (s *sseWriter) sendError(msg string) error {
	if _, err := fmt.Fprintf(s.w, "event: error\ndata: %s\n\n", msg); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
