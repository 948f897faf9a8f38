// Package engine is the small entity-component runtime the bridge plugs into:
// typed resources, double-buffered events and phased schedules of systems.
package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrMissingResource is returned when a system asks for a resource that was
	// never inserted.
	ErrMissingResource = errors.New("engine: missing resource")
	// ErrNotMainThread is returned when a non-send resource is requested from a
	// context that is not pinned to the window goroutine.
	ErrNotMainThread = errors.New("engine: non-send resource requested off the main goroutine")
)

// World stores resources and event queues.
type World struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
	nonSend   map[reflect.Type]any
	events    map[reflect.Type]eventQueue
}

// eventQueue is implemented by every *Events[T].
type eventQueue interface {
	update()
	clear()
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		resources: make(map[reflect.Type]any),
		nonSend:   make(map[reflect.Type]any),
		events:    make(map[reflect.Type]eventQueue),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// InsertResource stores v as the resource of type T, replacing any previous one.
func InsertResource[T any](w *World, v *T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resources[typeOf[T]()] = v
}

// InitResource inserts a zero T unless one is already present and returns the
// stored value.
func InitResource[T any](w *World) *T {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.resources[typeOf[T]()]; ok {
		return v.(*T)
	}
	v := new(T)
	w.resources[typeOf[T]()] = v
	return v
}

// GetResource returns the resource of type T.
func GetResource[T any](w *World) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.resources[typeOf[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// RemoveResource drops the resource of type T. Removing an absent resource is a no-op.
func RemoveResource[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.resources, typeOf[T]())
}

// InsertNonSend stores v as a non-send resource. Non-send resources can only be
// reached from a main-goroutine Context.
func InsertNonSend[T any](w *World, v *T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nonSend[typeOf[T]()] = v
}

// InitNonSend inserts a zero non-send T unless one is already present.
func InitNonSend[T any](w *World) *T {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.nonSend[typeOf[T]()]; ok {
		return v.(*T)
	}
	v := new(T)
	w.nonSend[typeOf[T]()] = v
	return v
}

// RemoveNonSend drops the non-send resource of type T.
func RemoveNonSend[T any](w *World) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.nonSend, typeOf[T]())
}

func getNonSend[T any](w *World) (*T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.nonSend[typeOf[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// AddEvent declares the event type T. Declaring it twice keeps the existing queue.
func AddEvent[T any](w *World) *Events[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	if q, ok := w.events[typeOf[T]()]; ok {
		return q.(*Events[T])
	}
	q := &Events[T]{}
	w.events[typeOf[T]()] = q
	return q
}

// EventsOf returns the queue for event type T.
func EventsOf[T any](w *World) (*Events[T], bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	q, ok := w.events[typeOf[T]()]
	if !ok {
		return nil, false
	}
	return q.(*Events[T]), true
}

// updateEvents advances every event queue by one frame.
func (w *World) updateEvents() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, q := range w.events {
		q.update()
	}
}

// Context is handed to systems and run conditions. It records whether the
// caller is pinned to the main (window) goroutine.
type Context struct {
	world  *World
	system string
	main   bool
}

// World returns the world the context operates on.
func (c *Context) World() *World { return c.world }

// System returns the name of the running system, empty outside a schedule.
func (c *Context) System() string { return c.system }

// IsMain reports whether non-send resources may be accessed.
func (c *Context) IsMain() bool { return c.main }

// Res returns the resource of type T or ErrMissingResource.
func Res[T any](ctx *Context) (*T, error) {
	v, ok := GetResource[T](ctx.world)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingResource, typeOf[T]())
	}
	return v, nil
}

// NonSendMut returns the non-send resource of type T. It fails with
// ErrNotMainThread unless ctx belongs to a main-goroutine system.
func NonSendMut[T any](ctx *Context) (*T, error) {
	if !ctx.main {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotMainThread, typeOf[T](), ctx.system)
	}
	v, ok := getNonSend[T](ctx.world)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingResource, typeOf[T]())
	}
	return v, nil
}

// EventWriter returns the queue for event type T so the system can send to it.
func EventWriter[T any](ctx *Context) (*Events[T], error) {
	q, ok := EventsOf[T](ctx.world)
	if !ok {
		return nil, fmt.Errorf("%w: events of %s", ErrMissingResource, typeOf[T]())
	}
	return q, nil
}
