package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}
	return strings.Join(w, " ")
}

func TestChunk_Windowing(t *testing.T) {
	// 1000 tokens, chunk_size=450, overlap=80 => [450, 450, 260] per S5.
	text := words(1000)
	c := New()
	chunks, err := c.Chunk(text, "doc", nil, Config{ChunkSize: 450, Overlap: 80})
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	require.Equal(t, []int{450, 450, 260}, []int{chunks[0].TokenCount, chunks[1].TokenCount, chunks[2].TokenCount})
	require.Equal(t, "doc_chunk_0", chunks[0].ChunkID)
	require.Equal(t, "doc_chunk_1", chunks[1].ChunkID)
	require.Equal(t, "doc_chunk_2", chunks[2].ChunkID)
}

func TestChunk_Deterministic(t *testing.T) {
	text := words(1000)
	c := New()
	a, err := c.Chunk(text, "doc", nil, Config{ChunkSize: 450, Overlap: 80})
	require.NoError(t, err)
	b, err := c.Chunk(text, "doc", nil, Config{ChunkSize: 450, Overlap: 80})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestChunk_EmptyText(t *testing.T) {
	c := New()
	chunks, err := c.Chunk("   ", "doc", nil, DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestChunk_ShorterThanOneChunk(t *testing.T) {
	text := words(10)
	c := New()
	chunks, err := c.Chunk(text, "doc", nil, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, 10, chunks[0].TokenCount)
}

func TestChunk_ExactlyOneChunkWorth(t *testing.T) {
	text := words(450)
	c := New()
	chunks, err := c.Chunk(text, "doc", nil, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, 450, chunks[0].TokenCount)
}

func TestChunk_InvalidConfig(t *testing.T) {
	c := New()
	_, err := c.Chunk("some text", "doc", nil, Config{ChunkSize: 100, Overlap: 100})
	require.Error(t, err)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)

	_, err = c.Chunk("some text", "doc", nil, Config{ChunkSize: 0, Overlap: 0})
	require.Error(t, err)
	require.ErrorAs(t, err, &invalid)
}

func TestChunk_MetadataCarriedVerbatimPlusSource(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(words(5), "doc42", map[string]any{"lang": "en"}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "en", chunks[0].Metadata["lang"])
	require.Equal(t, "doc42", chunks[0].Metadata["source"])
}

func TestStripHTML_DropsScriptsAndTags(t *testing.T) {
	html := `<html><head><style>.a{color:red}</style><script>evil()</script></head><body><p>Hello <b>world</b>.</p></body></html>`
	text := StripHTML(html)
	require.NotContains(t, text, "evil")
	require.NotContains(t, text, "<")
	require.Contains(t, text, "Hello")
}

func TestTokenize_Deterministic(t *testing.T) {
	require.Equal(t, Tokenize("Hello, world!"), Tokenize("Hello, world!"))
	require.NotEmpty(t, Tokenize("Hello, world!"))
}
