package linebreak

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hpungsan/solefit/internal/metrics"
)

// DefaultCacheSize bounds a cache created with a non-positive size.
const DefaultCacheSize = 256

type cacheKey struct {
	text string
	opts Options
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%g|%g|%d|%s", k.opts.MobileTarget, k.opts.DesktopTarget, k.opts.MinTokenCount, k.text)
}

// CacheStats reports cache usage.
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Cache memoizes plans. It is safe for concurrent use. When full, every
// entry is dropped at once. Concurrent misses for the same key share one
// computation.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[cacheKey]Result
	hits    uint64
	misses  uint64

	group singleflight.Group
}

// NewCache creates a cache holding at most maxEntries plans.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{
		max:     maxEntries,
		entries: make(map[cacheKey]Result),
	}
}

// Plan returns the same result as the package-level Plan.
func (c *Cache) Plan(text string, opts Options) Result {
	key := cacheKey{text: text, opts: opts}

	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		metrics.RecordLineBreakCache(true)
		return res.clone()
	}
	c.misses++
	c.mu.Unlock()
	metrics.RecordLineBreakCache(false)

	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		res := Plan(text, opts)
		c.mu.Lock()
		if len(c.entries) >= c.max {
			clear(c.entries)
		}
		c.entries[key] = res
		c.mu.Unlock()
		return res, nil
	})
	return v.(Result).clone()
}

// Stats returns a snapshot of hit and miss counts.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (r Result) clone() Result {
	r.MobileLines = slices.Clone(r.MobileLines)
	r.DesktopLines = slices.Clone(r.DesktopLines)
	return r
}
