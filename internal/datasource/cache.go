package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/touchline/internal/metrics"
)

// Fingerprinter is implemented by sources that can cheaply tell whether a
// season's contents changed since it was last read
type Fingerprinter interface {
	Fingerprint(ctx context.Context, season int) (string, error)
}

// SeasonKey identifies a cached season
type SeasonKey struct {
	League string
	Season int
}

// String returns string representation of cache key
func (k SeasonKey) String() string {
	return fmt.Sprintf("%s:%d", k.League, k.Season)
}

type cachedSeason struct {
	fingerprint string
	season      *Season
}

// CachedSeasonSource memoizes parsed seasons keyed by (league, season). When
// the inner source is a Fingerprinter, an entry is reused only while the
// fingerprint still matches. Cached seasons are shared and must not be mutated.
type CachedSeasonSource struct {
	inner     SeasonSource
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedSeasonSource wraps inner with a TTL cache holding at most maxSize seasons
func NewCachedSeasonSource(inner SeasonSource, ttl time.Duration, maxSize int) *CachedSeasonSource {
	return &CachedSeasonSource{
		inner:   inner,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// League returns the wrapped source's league
func (c *CachedSeasonSource) League() string {
	return c.inner.League()
}

// AvailableSeasons is not cached; directory listings are cheap
func (c *CachedSeasonSource) AvailableSeasons(ctx context.Context) ([]int, error) {
	return c.inner.AvailableSeasons(ctx)
}

// LoadSeason returns the cached season or loads and caches it
func (c *CachedSeasonSource) LoadSeason(ctx context.Context, season int) (*Season, error) {
	key := SeasonKey{League: c.inner.League(), Season: season}.String()

	fingerprint := ""
	if fp, ok := c.inner.(Fingerprinter); ok {
		var err error
		if fingerprint, err = fp.Fingerprint(ctx, season); err != nil {
			fingerprint = ""
		}
	}

	c.mu.Lock()
	if item, found := c.cache.Get(key); found {
		if entry, ok := item.(cachedSeason); ok && entry.fingerprint == fingerprint {
			c.hitCount++
			c.mu.Unlock()
			metrics.RecordCacheRequest(c.inner.League(), true)
			return entry.season, nil
		}
	}
	c.missCount++
	c.mu.Unlock()
	metrics.RecordCacheRequest(c.inner.League(), false)

	loaded, err := c.inner.LoadSeason(ctx, season)
	metrics.RecordSeasonLoad(c.inner.League(), err)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			c.cache.Flush()
		}
	}
	c.cache.Set(key, cachedSeason{fingerprint: fingerprint, season: loaded}, c.ttl)
	return loaded, nil
}

// Invalidate drops every cached season
func (c *CachedSeasonSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}

// Stats returns hit and miss counts
func (c *CachedSeasonSource) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitCount, c.missCount
}
