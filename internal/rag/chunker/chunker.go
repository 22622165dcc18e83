// Package chunker splits a cleaned HTML document into overlapping,
// bounded-length text windows (spec.md §4.1). Pure and deterministic: the
// same (html, config) pair always yields byte-identical chunks.
package chunker

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"vecsearch/internal/rag/types"
)

// InvalidInputError is returned when the chunking configuration is invalid.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid chunker input: " + e.Reason }

// Config controls chunk size and overlap, both in tokens.
type Config struct {
	ChunkSize int // default 450
	Overlap   int // default 80, must be < ChunkSize
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config { return Config{ChunkSize: 450, Overlap: 80} }

var tokenRe = regexp.MustCompile(`[A-Za-z0-9']+|[[:punct:]]`)

// Chunker converts one cleaned HTML document into an ordered list of
// TextChunks.
type Chunker struct{}

// New constructs a Chunker. Stateless; safe for concurrent use.
func New() Chunker { return Chunker{} }

// Chunk implements spec.md §4.1's algorithm: strip HTML to plain text,
// tokenize deterministically, and emit sliding windows of cfg.ChunkSize
// tokens stepping by (cfg.ChunkSize - cfg.Overlap).
func (Chunker) Chunk(html, docID string, metadata map[string]any, cfg Config) ([]types.TextChunk, error) {
	if cfg.ChunkSize <= 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("chunk_size must be positive, got %d", cfg.ChunkSize)}
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("overlap (%d) must be non-negative and less than chunk_size (%d)", cfg.Overlap, cfg.ChunkSize)}
	}

	text := StripHTML(html)
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []types.TextChunk{}, nil
	}

	stride := cfg.ChunkSize - cfg.Overlap
	chunks := make([]types.TextChunk, 0, (len(tokens)/stride)+1)
	idx := 0
	for start := 0; start < len(tokens); start += stride {
		end := start + cfg.ChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		window := tokens[start:end]
		md := make(map[string]any, len(metadata)+1)
		for k, v := range metadata {
			md[k] = v
		}
		md["source"] = docID
		chunk, err := types.NewTextChunk(
			fmt.Sprintf("%s_chunk_%d", docID, idx),
			strings.Join(window, " "),
			len(window),
			docID,
			md,
		)
		if err != nil {
			return nil, fmt.Errorf("construct chunk %d: %w", idx, err)
		}
		chunks = append(chunks, chunk)
		idx++
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}

// StripHTML collapses an HTML document to plain text: scripts/styles are
// dropped by the readability extractor, remaining markup is discarded, and
// whitespace is collapsed to single spaces. Falls back to a bare tag-strip
// when the document has no extractable article body (e.g. already-plain
// text, or a fragment with no <html> wrapper).
func StripHTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	utf8HTML := toUTF8Best(raw)
	if art, err := readability.FromReader(strings.NewReader(utf8HTML), &url.URL{}); err == nil {
		if t := strings.TrimSpace(art.TextContent); t != "" {
			return collapseWhitespace(t)
		}
	}
	return collapseWhitespace(stripTagsFallback(utf8HTML))
}

func toUTF8Best(s string) string {
	r, err := charset.NewReader(bytes.NewReader([]byte(s)), "text/html")
	if err != nil {
		return s
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return s
	}
	return string(b)
}

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]+>`)
)

func stripTagsFallback(htmlStr string) string {
	s := scriptStyleRe.ReplaceAllString(htmlStr, " ")
	return tagRe.ReplaceAllString(s, " ")
}

var wsRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Tokenize splits plain text into a deterministic token stream: runs of
// word characters (including apostrophes) and individual punctuation marks.
// Whitespace is not itself a token.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return tokenRe.FindAllString(text, -1)
}

