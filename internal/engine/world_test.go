package engine

import (
	"errors"
	"testing"
)

type counter struct{ n int }
type window struct{ name string }

func TestWorld_Resources(t *testing.T) {
	w := NewWorld()
	if _, ok := GetResource[counter](w); ok {
		t.Fatal("resource should be absent")
	}
	c := InitResource[counter](w)
	c.n = 3
	if again := InitResource[counter](w); again.n != 3 {
		t.Errorf("InitResource should keep the existing value, got %d", again.n)
	}
	InsertResource(w, &counter{n: 9})
	if got, _ := GetResource[counter](w); got.n != 9 {
		t.Errorf("InsertResource should replace, got %d", got.n)
	}
	RemoveResource[counter](w)
	RemoveResource[counter](w)
	if _, ok := GetResource[counter](w); ok {
		t.Error("resource should be removed")
	}
}

func TestContext_NonSendRequiresMain(t *testing.T) {
	w := NewWorld()
	InsertNonSend(w, &window{name: "main"})

	worker := &Context{world: w, system: "worker"}
	if _, err := NonSendMut[window](worker); !errors.Is(err, ErrNotMainThread) {
		t.Errorf("expected ErrNotMainThread, got %v", err)
	}

	main := &Context{world: w, main: true}
	got, err := NonSendMut[window](main)
	if err != nil {
		t.Fatal(err)
	}
	if got.name != "main" {
		t.Errorf("got %q", got.name)
	}

	RemoveNonSend[window](w)
	if _, err := NonSendMut[window](main); !errors.Is(err, ErrMissingResource) {
		t.Errorf("expected ErrMissingResource, got %v", err)
	}
}

func TestContext_Res(t *testing.T) {
	w := NewWorld()
	ctx := &Context{world: w}
	if _, err := Res[counter](ctx); !errors.Is(err, ErrMissingResource) {
		t.Errorf("expected ErrMissingResource, got %v", err)
	}
	InsertResource(w, &counter{n: 1})
	if c, err := Res[counter](ctx); err != nil || c.n != 1 {
		t.Errorf("Res = %v, %v", c, err)
	}
}

func TestAddEvent_Idempotent(t *testing.T) {
	w := NewWorld()
	a := AddEvent[int](w)
	a.Send(1)
	b := AddEvent[int](w)
	if a != b {
		t.Error("AddEvent should return the existing queue")
	}
	ctx := &Context{world: w}
	if _, err := EventWriter[string](ctx); !errors.Is(err, ErrMissingResource) {
		t.Errorf("expected ErrMissingResource for undeclared event, got %v", err)
	}
}
