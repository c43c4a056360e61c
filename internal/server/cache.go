package server

import (
	"sync"

	"dashboard/internal/revalidate"
)

const maxCachedListings = 1024

type cacheKey struct {
	path   string
	viewer string
}

// listingCache holds rendered dashboard listings per path and viewer.
// A revalidated path drops its own entries, its descendants, and its
// ancestors, since ancestor views aggregate their children.
type listingCache struct {
	mu      sync.Mutex
	entries map[cacheKey]any
	gen     uint64
}

func newListingCache() *listingCache {
	return &listingCache{entries: make(map[cacheKey]any)}
}

// get returns the cached value, or the current generation to pass to put.
func (lc *listingCache) get(path, viewer string) (v any, hit bool, gen uint64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	v, hit = lc.entries[cacheKey{path, viewer}]
	return v, hit, lc.gen
}

// put stores v unless an invalidation happened since gen was read.
func (lc *listingCache) put(path, viewer string, v any, gen uint64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if gen != lc.gen {
		return
	}
	if len(lc.entries) >= maxCachedListings {
		clear(lc.entries)
	}
	lc.entries[cacheKey{path, viewer}] = v
}

func (lc *listingCache) invalidate(path string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.gen++
	for k := range lc.entries {
		if revalidate.Covers(path, k.path) || revalidate.Covers(k.path, path) {
			delete(lc.entries, k)
		}
	}
}

func (lc *listingCache) len() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.entries)
}
