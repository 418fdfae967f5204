package mapray

import (
	"sync"

	"github.com/sony/mapray-wasm/b3dtile"
	"github.com/sony/mapray-wasm/sdfield"
)

// Handle identifies one live tile or converter across the foreign-entry
// surface. Zero is never issued and marks an absent handle.
type Handle uint32

// registry is a handle table over one resource type: its own issuing
// counter plus a mutex-protected map, the same shape as
// gogpu-gg's surface.Registry but keyed by an issued integer handle
// rather than a registered name.
type registry[T any] struct {
	mu      sync.RWMutex
	next    uint32
	entries map[Handle]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{entries: make(map[Handle]T)}
}

func (r *registry[T]) create(v T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h := Handle(r.next)
	r.entries[h] = v
	return h
}

func (r *registry[T]) get(h Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[h]
	return v, ok
}

func (r *registry[T]) destroy(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, h)
}

var (
	tiles      = newRegistry[*b3dtile.Tile]()
	converters = newRegistry[*sdfield.Converter]()
)
