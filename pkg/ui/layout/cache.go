package layout

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// DefaultCacheSize is the number of split results kept by NewCache(0).
const DefaultCacheSize = 256

type cacheKey struct {
	direction   Direction
	constraints string
	margin      geometry.Margin
	spacing     int
	area        geometry.Area
	n           int
}

// Cache memoizes split results. Splits are pure so a hit is always valid.
type Cache struct {
	entries *lru.Cache[cacheKey, []geometry.Area]
}

// NewCache creates a cache holding up to size results.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, []geometry.Area](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Split is Layout.Split through the cache.
func (c *Cache) Split(l Layout, area geometry.Area) ([]geometry.Area, error) {
	return c.SplitN(l, area, len(l.Constraints))
}

// SplitN is Layout.SplitN through the cache. Errors are not cached.
func (c *Cache) SplitN(l Layout, area geometry.Area, n int) ([]geometry.Area, error) {
	key := cacheKey{
		direction:   l.Direction,
		constraints: fmt.Sprint(l.Constraints),
		margin:      l.Margin,
		spacing:     l.Spacing,
		area:        area,
		n:           n,
	}
	if areas, ok := c.entries.Get(key); ok {
		return append([]geometry.Area(nil), areas...), nil
	}
	areas, err := l.SplitN(area, n)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, areas)
	return append([]geometry.Area(nil), areas...), nil
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	c.entries.Purge()
}
