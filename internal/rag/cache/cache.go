// Package cache implements the Query Service's in-memory (q,k)→results
// cache (spec.md §4.5.1): LRU eviction at capacity, lazy TTL eviction on
// read, O(1) amortized operations under a single mutex.
package cache

import (
	"container/list"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"vecsearch/internal/rag/types"
)

// Key computes the deterministic cache key for a query/top-k pair:
// normalize(q) + "|" + str(k), where normalize trims and lower-cases.
func Key(q string, k int) string {
	return normalize(q) + "|" + strconv.Itoa(k)
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

type entry struct {
	hash      uint64
	rawKey    string
	results   []types.SearchMatch
	storedAt  time.Time
	listElem  *list.Element
}

// Cache is a size-bounded, TTL-bounded map from cache key to SearchMatch
// list, safe for concurrent use. A single mutex guards an ordered map (a
// doubly-linked list for LRU order plus a hash index), matching spec.md's
// "single mutex protecting an ordered map is acceptable" guidance.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	order    *list.List // front = most recently used
	byHash   map[uint64]*entry
	now      func() time.Time // overridable in tests
}

// New constructs a Cache with the given TTL and maximum entry count.
func New(ttl time.Duration, capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		order:    list.New(),
		byHash:   make(map[uint64]*entry),
		now:      time.Now,
	}
}

// Get returns the cached results for key if present and not expired. The
// second return is true only on a genuine hit; an expired entry is evicted
// and reported as a miss.
func (c *Cache) Get(key string) ([]types.SearchMatch, bool) {
	h := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byHash[h]
	if !ok || e.rawKey != key {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.removeLocked(e)
		return nil, false
	}
	c.order.MoveToFront(e.listElem)
	out := make([]types.SearchMatch, len(e.results))
	copy(out, e.results)
	return out, true
}

// Set stores results under key, evicting the least-recently-used entry if
// the cache is at capacity. On a raw-key collision (same key already
// present), the later write wins.
func (c *Cache) Set(key string, results []types.SearchMatch) {
	h := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]types.SearchMatch, len(results))
	copy(stored, results)

	if e, ok := c.byHash[h]; ok && e.rawKey == key {
		e.results = stored
		e.storedAt = c.now()
		c.order.MoveToFront(e.listElem)
		return
	}

	e := &entry{hash: h, rawKey: key, results: stored, storedAt: c.now()}
	e.listElem = c.order.PushFront(e)
	c.byHash[h] = e

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest.Value.(*entry))
	}
}

// Len reports the number of live (not necessarily unexpired) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.listElem)
	delete(c.byHash, e.hash)
}
