package vocab

import (
	"strings"
	"sync"

	"github.com/jward/harmonizer/internal/coord"
)

// Cache memoizes AnalyzeText and concept-list results by exact input. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(text string) (coord.Coordinate, bool)
	Put(text string, c coord.Coordinate)
	Reset()
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// MemoryCache is a bounded in-memory Cache. When full it is cleared
// wholesale rather than evicting single entries.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]coord.Coordinate
	hits    uint64
	misses  uint64
}

// NewMemoryCache returns a cache holding at most max entries. max <= 0
// means unbounded.
func NewMemoryCache(max int) *MemoryCache {
	return &MemoryCache{max: max, entries: make(map[string]coord.Coordinate)}
}

func (m *MemoryCache) Get(text string) (coord.Coordinate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[text]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return c, ok
}

func (m *MemoryCache) Put(text string, c coord.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[text]; !ok && m.max > 0 && len(m.entries) >= m.max {
		m.entries = make(map[string]coord.Coordinate)
	}
	m.entries[text] = c
}

// Reset drops every entry and zeroes the counters.
func (m *MemoryCache) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]coord.Coordinate)
	m.hits, m.misses = 0, 0
}

// Stats returns a snapshot of the counters.
func (m *MemoryCache) Stats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CacheStats{Entries: len(m.entries), Hits: m.hits, Misses: m.misses}
}

// CachedAnalyzer runs AnalyzeText and Coordinate through an optional cache.
type CachedAnalyzer struct {
	table *Table
	cache Cache
}

// NewCachedAnalyzer wraps t. A nil cache disables memoization.
func NewCachedAnalyzer(t *Table, cache Cache) *CachedAnalyzer {
	return &CachedAnalyzer{table: t, cache: cache}
}

// Table returns the wrapped table.
func (a *CachedAnalyzer) Table() *Table { return a.table }

// AnalyzeText returns the same coordinate as Table.AnalyzeText.
func (a *CachedAnalyzer) AnalyzeText(text string) coord.Coordinate {
	if a.cache == nil {
		return a.table.AnalyzeText(text)
	}
	if c, ok := a.cache.Get(text); ok {
		return c
	}
	c := a.table.AnalyzeText(text)
	a.cache.Put(text, c)
	return c
}

// Coordinate returns the same coordinate as Table.Coordinate.
func (a *CachedAnalyzer) Coordinate(concepts []Concept) coord.Coordinate {
	if a.cache == nil {
		return a.table.Coordinate(concepts)
	}
	key := conceptKey(concepts)
	if c, ok := a.cache.Get(key); ok {
		return c
	}
	c := a.table.Coordinate(concepts)
	a.cache.Put(key, c)
	return c
}

// conceptKey encodes a concept list so it never collides with plain text
// keys. Tagged concepts carry their dimension.
func conceptKey(concepts []Concept) string {
	var b strings.Builder
	b.WriteByte(0)
	for _, c := range concepts {
		if c.Tagged {
			b.WriteString(c.Dimension.String())
			b.WriteByte(1)
		}
		b.WriteString(c.Word)
		b.WriteByte(0)
	}
	return b.String()
}
