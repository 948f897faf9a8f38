package a11y

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/a11y-bridge/internal/model"
)

func req(target model.NodeID) model.ActionRequest {
	return model.ActionRequest{Action: model.ActionFocus, Target: target}
}

func drainAll(t *testing.T, q *RequestQueue) []model.NodeID {
	t.Helper()
	var got []model.NodeID
	if _, err := q.DrainInto(func(r model.ActionRequest) { got = append(got, r.Target) }); err != nil {
		t.Fatalf("DrainInto: %v", err)
	}
	return got
}

func TestRequestQueue_FIFO(t *testing.T) {
	q := NewRequestQueue()
	q.Enqueue(req(1))
	q.Enqueue(req(2))
	if got := drainAll(t, q); !cmp.Equal(got, []model.NodeID{1, 2}) {
		t.Errorf("first drain = %v", got)
	}
	q.Enqueue(req(3))
	if got := drainAll(t, q); !cmp.Equal(got, []model.NodeID{3}) {
		t.Errorf("second drain = %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after drain", q.Len())
	}
}

// TestRequestQueue_FIFOAcrossConcurrentDrains runs one producer against a
// draining consumer and checks the consumer sees every request in order.
func TestRequestQueue_FIFOAcrossConcurrentDrains(t *testing.T) {
	const n = 5000
	q := NewRequestQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			q.Enqueue(req(model.NodeID(i)))
		}
	}()

	var got []model.NodeID
	sink := func(r model.ActionRequest) { got = append(got, r.Target) }
	for len(got) < n {
		if _, err := q.DrainInto(sink); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()

	for i, target := range got {
		if target != model.NodeID(i+1) {
			t.Fatalf("position %d: got %d, want %d", i, target, i+1)
		}
	}
}

func TestRequestQueue_PoisonAndRecover(t *testing.T) {
	q := NewRequestQueue()
	q.Enqueue(req(1))
	q.Enqueue(req(2))
	q.Enqueue(req(3))

	func() {
		defer func() { _ = recover() }()
		_, _ = q.DrainInto(func(r model.ActionRequest) {
			if r.Target == 2 {
				panic("sink failed")
			}
		})
	}()

	if !q.Poisoned() {
		t.Fatal("queue should be poisoned after a panicking sink")
	}
	if _, err := q.DrainInto(func(model.ActionRequest) {}); !errors.Is(err, ErrPoisoned) {
		t.Errorf("expected ErrPoisoned, got %v", err)
	}

	q.Enqueue(req(4))
	if discarded := q.Recover(); discarded != 2 {
		t.Errorf("Recover discarded %d, want 2", discarded)
	}
	if q.Poisoned() {
		t.Error("Recover should clear the poisoned state")
	}
	q.Enqueue(req(5))
	if got := drainAll(t, q); !cmp.Equal(got, []model.NodeID{5}) {
		t.Errorf("after recover = %v", got)
	}
}

func TestRequestQueue_OutlivesRegistry(t *testing.T) {
	h := NewHandlers()
	q := NewRequestQueue()
	h.Insert(1, q)
	h.Remove(1)
	h.Clear()

	for i := 0; i < 10; i++ {
		q.Enqueue(req(model.NodeID(i)))
	}
	if q.Len() != 10 {
		t.Errorf("Len = %d, want 10", q.Len())
	}
}
