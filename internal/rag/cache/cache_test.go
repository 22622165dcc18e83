package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vecsearch/internal/rag/types"
)

func matches(chunkID string) []types.SearchMatch {
	return []types.SearchMatch{{ChunkID: chunkID, Score: 1}}
}

func TestKey_NormalizesQuery(t *testing.T) {
	require.Equal(t, Key("Hello", 5), Key("  hello  ", 5))
	require.NotEqual(t, Key("hello", 5), Key("hello", 6))
}

func TestCache_SetThenGet(t *testing.T) {
	c := New(time.Minute, 10)
	key := Key("q", 5)
	c.Set(key, matches("a"))

	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "a", got[0].ChunkID)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New(time.Minute, 10)
	_, ok := c.Get(Key("nope", 5))
	require.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := New(10*time.Second, 10)
	now := time.Now()
	c.now = func() time.Time { return now }
	key := Key("q", 5)
	c.Set(key, matches("a"))

	c.now = func() time.Time { return now.Add(11 * time.Second) }
	_, ok := c.Get(key)
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(time.Minute, 2)
	c.Set(Key("a", 1), matches("a"))
	c.Set(Key("b", 1), matches("b"))
	// touch "a" so "b" becomes the LRU victim
	_, _ = c.Get(Key("a", 1))
	c.Set(Key("c", 1), matches("c"))

	_, ok := c.Get(Key("b", 1))
	require.False(t, ok)
	_, ok = c.Get(Key("a", 1))
	require.True(t, ok)
	_, ok = c.Get(Key("c", 1))
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestCache_SetOverwritesExistingKey(t *testing.T) {
	c := New(time.Minute, 10)
	key := Key("q", 5)
	c.Set(key, matches("a"))
	c.Set(key, matches("b"))

	got, ok := c.Get(key)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].ChunkID)
	require.Equal(t, 1, c.Len())
}

func TestCache_GetReturnsACopy(t *testing.T) {
	c := New(time.Minute, 10)
	key := Key("q", 5)
	c.Set(key, matches("a"))

	got, _ := c.Get(key)
	got[0].ChunkID = "mutated"

	again, _ := c.Get(key)
	require.Equal(t, "a", again[0].ChunkID)
}

func TestNew_DefaultsCapacity(t *testing.T) {
	c := New(time.Minute, 0)
	require.Equal(t, 1000, c.capacity)
}
