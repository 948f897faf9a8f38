package engine

import "sync"

type eventInstance[T any] struct {
	id    uint64
	event T
}

// Events is a double-buffered event queue. An event sent during frame N is
// readable until the end of frame N+1, after which it is dropped.
type Events[T any] struct {
	mu   sync.Mutex
	prev []eventInstance[T]
	curr []eventInstance[T]
	next uint64
}

// Send appends an event.
func (e *Events[T]) Send(ev T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.curr = append(e.curr, eventInstance[T]{id: e.next, event: ev})
	e.next++
}

// SendBatch appends events in order.
func (e *Events[T]) SendBatch(evs ...T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range evs {
		e.curr = append(e.curr, eventInstance[T]{id: e.next, event: ev})
		e.next++
	}
}

// Len returns the number of buffered events.
func (e *Events[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.prev) + len(e.curr)
}

func (e *Events[T]) update() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prev = e.curr
	e.curr = nil
}

func (e *Events[T]) clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prev = nil
	e.curr = nil
}

// EventReader remembers which events of a queue it has already seen.
// The zero value reads every buffered event.
type EventReader[T any] struct {
	last uint64
}

// Read returns the events sent since the previous Read, oldest first.
func (r *EventReader[T]) Read(e *Events[T]) []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []T
	for _, buf := range [][]eventInstance[T]{e.prev, e.curr} {
		for _, inst := range buf {
			if inst.id >= r.last {
				out = append(out, inst.event)
			}
		}
	}
	r.last = e.next
	return out
}
