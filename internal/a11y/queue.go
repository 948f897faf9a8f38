package a11y

import (
	"errors"
	"fmt"
	"sync"

	list "github.com/bahlo/generic-list-go"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// ErrPoisoned is returned by DrainInto after a sink panicked mid-drain.
var ErrPoisoned = errors.New("a11y: request queue poisoned")

// RequestQueue is a FIFO of action requests shared between the windowing
// layer (producer) and the frame loop (consumer).
type RequestQueue struct {
	mu       sync.Mutex
	items    *list.List[model.ActionRequest]
	poisoned bool
}

// NewRequestQueue creates an empty queue.
func NewRequestQueue() *RequestQueue {
	return &RequestQueue{items: list.New[model.ActionRequest]()}
}

// Enqueue appends req. It never blocks beyond the queue mutex and is safe to
// call from any goroutine, including after the queue left the registry.
func (q *RequestQueue) Enqueue(req model.ActionRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(req)
}

// Len returns the number of pending requests.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Poisoned reports whether a previous drain was interrupted by a panic.
func (q *RequestQueue) Poisoned() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.poisoned
}

// DrainInto moves every pending request, oldest first, into sink while holding
// the lock. If sink panics the queue is poisoned and the panic continues
// upward; the request being delivered is considered consumed.
func (q *RequestQueue) DrainInto(sink func(model.ActionRequest)) (n int, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.poisoned {
		return 0, fmt.Errorf("%w (%d pending)", ErrPoisoned, q.items.Len())
	}

	done := false
	defer func() {
		if !done {
			q.poisoned = true
		}
	}()
	for e := q.items.Front(); e != nil; e = q.items.Front() {
		req := q.items.Remove(e)
		n++
		sink(req)
	}
	done = true
	return n, nil
}

// Recover clears the poisoned state by replacing the backing list with a fresh
// one, and returns how many pending requests were discarded. Producers keep
// their reference and continue to enqueue into the same queue.
func (q *RequestQueue) Recover() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	discarded := q.items.Len()
	q.items = list.New[model.ActionRequest]()
	q.poisoned = false
	return discarded
}
