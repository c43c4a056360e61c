// Package revalidate tells cached dashboard views that their data changed.
package revalidate

import (
	"context"
	"strings"
	"sync"
)

// Revalidator is told the path of every listing a mutation touched.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

// Handler reacts to a revalidated path.
type Handler func(path string)

// Bus delivers revalidations to in-process subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every revalidated path.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Revalidate runs every handler before returning, so the next read after a
// mutation never sees a stale view.
func (b *Bus) Revalidate(_ context.Context, path string) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(path)
	}
}

// Covers reports whether revalidating path invalidates a view at key.
// "/dashboard" covers "/dashboard" and "/dashboard/posts" but not "/dashboards".
func Covers(path, key string) bool {
	if path == "/" || path == key {
		return true
	}
	return strings.HasPrefix(key, strings.TrimSuffix(path, "/")+"/")
}

// Fanout hands every path to each Revalidator in order. Put the local Bus
// first so this instance is invalidated even when a remote publish fails.
type Fanout []Revalidator

func (f Fanout) Revalidate(ctx context.Context, path string) {
	for _, r := range f {
		r.Revalidate(ctx, path)
	}
}

// Nop discards revalidations.
type Nop struct{}

func (Nop) Revalidate(context.Context, string) {}
