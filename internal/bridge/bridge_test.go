package bridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/winit"
)

func newBridge(t *testing.T, requested, manage bool) *Bridge {
	t.Helper()
	b, err := New(Options{
		Workers:                4,
		AccessibilityRequested: requested,
		ManageUpdates:          manage,
		NewAdapter:             platform.NewHeadlessAdapter,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Shutdown)
	return b
}

func open(t *testing.T, b *Bridge, title string) model.WindowID {
	t.Helper()
	id, err := b.Open(winit.WindowOptions{Title: title})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func send(t *testing.T, b *Bridge, w model.WindowID, action model.Action) {
	t.Helper()
	if err := b.Request(w, model.ActionRequest{Action: action}); err != nil {
		t.Fatal(err)
	}
}

func step(t *testing.T, b *Bridge) FrameResult {
	t.Helper()
	res, err := b.Step()
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func ev(w model.WindowID, action model.Action) model.ActionRequestEvent {
	return model.ActionRequestEvent{Window: w, Request: model.ActionRequest{Action: action}}
}

func assertEmptyRegistries(t *testing.T, b *Bridge) {
	t.Helper()
	adapters, handlers := b.Registered()
	if len(adapters) != 0 || len(handlers) != 0 {
		t.Errorf("registries not empty: adapters=%v handlers=%v", adapters, handlers)
	}
}

// S1: requests of one window are emitted in order.
func TestScenario_TwoWindowsOneProducer(t *testing.T) {
	b := newBridge(t, false, true)
	w1 := open(t, b, "W1")
	open(t, b, "W2")
	send(t, b, w1, model.ActionClick)
	send(t, b, w1, model.ActionFocus)

	got := step(t, b).Events
	want := []model.ActionRequestEvent{ev(w1, model.ActionClick), ev(w1, model.ActionFocus)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

// S2: a window closed in the same frame emits nothing.
func TestScenario_CloseBeforeDrain(t *testing.T) {
	b := newBridge(t, false, true)
	w1 := open(t, b, "W1")
	send(t, b, w1, model.ActionClick)
	b.Close(w1)

	if got := step(t, b).Events; len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
	assertEmptyRegistries(t, b)
}

// S3: per-window order is kept across windows.
func TestScenario_PerWindowOrder(t *testing.T) {
	b := newBridge(t, false, true)
	w1 := open(t, b, "W1")
	w2 := open(t, b, "W2")
	send(t, b, w1, model.ActionClick)
	send(t, b, w2, model.ActionIncrement)
	send(t, b, w2, model.ActionDecrement)

	got := step(t, b).Events
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %v", got)
	}
	var fromW2 []model.Action
	for _, e := range got {
		if e.Window == w2 {
			fromW2 = append(fromW2, e.Request.Action)
		}
	}
	if diff := cmp.Diff([]model.Action{model.ActionIncrement, model.ActionDecrement}, fromW2); diff != "" {
		t.Errorf("w2 order (-want +got):\n%s", diff)
	}
}

// S4: with accessibility not requested, requests flow but nodes are not updated.
func TestScenario_GatedOff(t *testing.T) {
	b := newBridge(t, false, true)
	w1 := open(t, b, "W1")
	send(t, b, w1, model.ActionClick)

	res := step(t, b)
	if len(res.Events) != 1 {
		t.Errorf("expected one event, got %v", res.Events)
	}
	if res.UpdatedNodes {
		t.Error("update-nodes must not run when accessibility was not requested")
	}
}

// S5: with both flags set, update-nodes runs exactly once per frame.
func TestScenario_GatedOn(t *testing.T) {
	b := newBridge(t, true, true)
	open(t, b, "W1")

	res := step(t, b)
	if len(res.Events) != 0 {
		t.Errorf("expected no events, got %v", res.Events)
	}
	if !res.UpdatedNodes {
		t.Error("update-nodes should run")
	}
}

// S6: opening and closing many windows in one frame leaves nothing behind.
func TestScenario_RapidChurn(t *testing.T) {
	b := newBridge(t, true, true)
	for i := 1; i <= 100; i++ {
		w := open(t, b, fmt.Sprintf("W%d", i))
		send(t, b, w, model.ActionFocus)
		b.Close(w)
	}
	if got := step(t, b).Events; len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
	assertEmptyRegistries(t, b)
	if len(b.Windows()) != 0 {
		t.Errorf("windows still open: %v", b.Windows())
	}
}

func TestBridge_FlagsCanChangeBetweenFrames(t *testing.T) {
	b := newBridge(t, false, false)
	open(t, b, "W1")
	if step(t, b).UpdatedNodes {
		t.Error("flags off: update-nodes ran")
	}
	b.SetFlags(true, true)
	if r, m := b.Flags(); !r || !m {
		t.Errorf("Flags = %v,%v", r, m)
	}
	if !step(t, b).UpdatedNodes {
		t.Error("flags on: update-nodes did not run")
	}
}

func TestBridge_RequestUnknownWindow(t *testing.T) {
	b := newBridge(t, false, true)
	if err := b.Request(9, model.ActionRequest{}); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("expected ErrUnknownWindow, got %v", err)
	}
}

func TestBridge_ProducerOutlivesShutdown(t *testing.T) {
	b, err := New(Options{NewAdapter: platform.NewHeadlessAdapter, ManageUpdates: true})
	if err != nil {
		t.Fatal(err)
	}
	w := open(t, b, "W1")
	deliver, ok := b.Producer(w)
	if !ok {
		t.Fatal("producer missing")
	}
	b.Shutdown()
	if !deliver(model.ActionRequest{Action: model.ActionClick}) {
		t.Error("window still holds its handler, delivery should succeed")
	}
	assertEmptyRegistries(t, b)
}

func TestRunner(t *testing.T) {
	r, err := NewRunner(Options{NewAdapter: platform.NewHeadlessAdapter, ManageUpdates: true})
	if err != nil {
		t.Fatal(err)
	}

	var w model.WindowID
	err = r.Do(func(b *Bridge) error {
		var err error
		w, err = b.Open(winit.WindowOptions{Title: "Main"})
		if err != nil {
			return err
		}
		return b.Request(w, model.ActionRequest{Action: model.ActionExpand})
	})
	if err != nil {
		t.Fatal(err)
	}

	var res FrameResult
	if err := r.Do(func(b *Bridge) (err error) { res, err = b.Step(); return err }); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]model.ActionRequestEvent{ev(w, model.ActionExpand)}, res.Events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	if err := r.Do(func(*Bridge) error { panic("boom") }); err == nil {
		t.Error("a panicking call should return an error")
	}

	r.Stop()
	r.Stop()
	if err := r.Do(func(*Bridge) error { return nil }); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}
