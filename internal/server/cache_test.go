package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingCacheInvalidate(t *testing.T) {
	lc := newListingCache()
	for _, p := range []string{"/dashboard", "/dashboard/posts", "/dashboard/products", "/healthz"} {
		_, _, gen := lc.get(p, "")
		lc.put(p, "", p, gen)
	}
	lc.put("/dashboard/posts", "alice", "alice view", 0)
	assert.Equal(t, 5, lc.len())

	lc.invalidate("/dashboard/products")
	_, hit, _ := lc.get("/dashboard/products", "")
	assert.False(t, hit)
	_, hit, _ = lc.get("/dashboard", "")
	assert.False(t, hit, "ancestor view aggregates products")
	_, hit, _ = lc.get("/dashboard/posts", "alice")
	assert.True(t, hit)

	lc.invalidate("/dashboard")
	assert.Equal(t, 1, lc.len(), "only /healthz survives")
}

func TestListingCacheDropsStalePut(t *testing.T) {
	lc := newListingCache()
	_, _, gen := lc.get("/dashboard", "")
	lc.invalidate("/dashboard/posts")
	lc.put("/dashboard", "", "stale", gen)

	_, hit, _ := lc.get("/dashboard", "")
	assert.False(t, hit)
}
