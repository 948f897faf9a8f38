package a11y

import (
	"maps"
	"slices"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// Adapters maps windows to their platform adapters. Adapters cannot move
// between threads, so this registry is installed as a non-send resource and is
// only touched from the goroutine that owns native windows. It does no locking.
type Adapters struct {
	m map[model.WindowID]*platform.Adapter
}

// NewAdapters creates an empty registry.
func NewAdapters() *Adapters {
	return &Adapters{m: make(map[model.WindowID]*platform.Adapter)}
}

// Insert stores the adapter of w, replacing any previous one.
func (r *Adapters) Insert(w model.WindowID, a *platform.Adapter) {
	if r.m == nil {
		r.m = make(map[model.WindowID]*platform.Adapter)
	}
	r.m[w] = a
}

// Remove drops the adapter of w. Removing an unknown window is a no-op.
func (r *Adapters) Remove(w model.WindowID) {
	delete(r.m, w)
}

// Get returns the adapter of w.
func (r *Adapters) Get(w model.WindowID) (*platform.Adapter, bool) {
	a, ok := r.m[w]
	return a, ok
}

// Len returns the number of registered windows.
func (r *Adapters) Len() int { return len(r.m) }

// Keys returns the registered windows in ascending order.
func (r *Adapters) Keys() []model.WindowID {
	return slices.Sorted(maps.Keys(r.m))
}

// Range calls f for every adapter in ascending window order until f returns false.
func (r *Adapters) Range(f func(w model.WindowID, a *platform.Adapter) bool) {
	for _, w := range r.Keys() {
		if !f(w, r.m[w]) {
			return
		}
	}
}

// Clear drops every adapter.
func (r *Adapters) Clear() {
	clear(r.m)
}
