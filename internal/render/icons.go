package render

import (
	"context"
	"image"
	"sync"
)

// IconSource fetches a condition icon bitmap by provider code.
type IconSource interface {
	FetchIcon(ctx context.Context, code string) (image.Image, error)
}

// IconCache is a process-wide cache of icon bitmaps keyed by icon code.
// The code space is small and finite, so entries are never evicted.
// Concurrent population is idempotent: two goroutines fetching the same
// code may both store it, which is harmless.
type IconCache struct {
	source IconSource

	mu    sync.Mutex
	icons map[string]image.Image
}

func NewIconCache(source IconSource) *IconCache {
	return &IconCache{
		source: source,
		icons:  make(map[string]image.Image),
	}
}

// Get returns the icon for code, fetching and caching it on first use.
// Failed fetches are not cached so a later render can retry.
func (c *IconCache) Get(ctx context.Context, code string) (image.Image, error) {
	c.mu.Lock()
	icon, ok := c.icons[code]
	c.mu.Unlock()
	if ok {
		return icon, nil
	}

	icon, err := c.source.FetchIcon(ctx, code)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.icons[code] = icon
	c.mu.Unlock()
	return icon, nil
}

// Len returns the number of cached icons.
func (c *IconCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.icons)
}
