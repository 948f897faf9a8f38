package a11y

import (
	"maps"
	"slices"
	"sync"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// Handlers maps windows to their request queues. It is the only consumer-side
// owner of each queue; the producer side lives in the callback installed on
// the native window. Safe for concurrent readers; mutated by the frame loop.
type Handlers struct {
	mu sync.RWMutex
	m  map[model.WindowID]*RequestQueue
}

// NewHandlers creates an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{m: make(map[model.WindowID]*RequestQueue)}
}

// Insert stores the queue of w, replacing any previous one.
func (r *Handlers) Insert(w model.WindowID, q *RequestQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[model.WindowID]*RequestQueue)
	}
	r.m[w] = q
}

// Remove drops the queue of w. Removing an unknown window is a no-op, and
// producers still holding the queue may keep enqueueing into it.
func (r *Handlers) Remove(w model.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, w)
}

// Get returns the queue of w.
func (r *Handlers) Get(w model.WindowID) (*RequestQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.m[w]
	return q, ok
}

// Len returns the number of registered windows.
func (r *Handlers) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Keys returns the registered windows in ascending order.
func (r *Handlers) Keys() []model.WindowID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.m))
}

// Range calls f for every queue in ascending window order until f returns
// false. f runs on a snapshot, so it may call back into the registry.
func (r *Handlers) Range(f func(w model.WindowID, q *RequestQueue) bool) {
	r.mu.RLock()
	keys := slices.Sorted(maps.Keys(r.m))
	queues := make([]*RequestQueue, len(keys))
	for i, w := range keys {
		queues[i] = r.m[w]
	}
	r.mu.RUnlock()

	for i, w := range keys {
		if !f(w, queues[i]) {
			return
		}
	}
}

// Clear drops every queue.
func (r *Handlers) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.m)
}
