package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
)

func noop(*Context) error { return nil }

func TestSchedule_StagesFollowConstraints(t *testing.T) {
	s := NewSchedule(PostUpdate)
	err := s.Add(
		NewSystem("poll", noop).InSet("a11y"),
		NewSystem("update", noop).InSet("a11y").NonSend(),
		NewSystem("closed", noop).InSet("a11y").Before("poll", "update"),
	)
	if err != nil {
		t.Fatal(err)
	}
	stages, err := s.Stages()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"closed"}, {"poll", "update"}}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("stages (-want +got):\n%s", diff)
	}
}

func TestSchedule_SetTargets(t *testing.T) {
	s := NewSchedule(Update)
	_ = s.Add(
		NewSystem("late", noop).After("group"),
		NewSystem("a", noop).InSet("group"),
		NewSystem("b", noop).InSet("group"),
	)
	stages, err := s.Stages()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "b"}, {"late"}}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("stages (-want +got):\n%s", diff)
	}
}

func TestSchedule_Errors(t *testing.T) {
	s := NewSchedule(Update)
	if err := s.Add(NewSystem("x", noop), NewSystem("x", noop)); !errors.Is(err, ErrDuplicateSystem) {
		t.Errorf("expected ErrDuplicateSystem, got %v", err)
	}

	s = NewSchedule(Update)
	_ = s.Add(NewSystem("x", noop).Before("missing"))
	if _, err := s.Stages(); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("expected ErrUnknownTarget, got %v", err)
	}

	s = NewSchedule(Update)
	_ = s.Add(NewSystem("x", noop).Before("y"), NewSystem("y", noop).Before("x"))
	if _, err := s.Stages(); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestSchedule_RunOrderAndConditions(t *testing.T) {
	var mu sync.Mutex
	var order []string
	track := func(name string) SystemFunc {
		return func(*Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	gate := false
	s := NewSchedule(PostUpdate)
	_ = s.Add(
		NewSystem("second", track("second")).After("first"),
		NewSystem("first", track("first")),
		NewSystem("gated", track("gated")).After("first").RunIf(func(*Context) bool { return gate }),
	)

	w := NewWorld()
	if err := s.Run(w, 4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if st := s.Stats("gated"); st.Runs != 0 || st.Skipped != 1 {
		t.Errorf("gated stats = %+v", st)
	}

	gate = true
	order = nil
	_ = s.Run(w, 1)
	if st := s.Stats("gated"); st.Runs != 1 {
		t.Errorf("gated should run once the condition holds, stats = %+v", st)
	}
	if order[0] != "first" {
		t.Errorf("first must run before its dependents, got %v", order)
	}
}

func TestSchedule_NonSendRunsWithMainContext(t *testing.T) {
	w := NewWorld()
	InsertNonSend(w, &window{name: "w"})

	var pinnedErr, freeErr error
	s := NewSchedule(PostUpdate)
	_ = s.Add(
		NewSystem("pinned", func(ctx *Context) error {
			_, pinnedErr = NonSendMut[window](ctx)
			return nil
		}).NonSend(),
		NewSystem("free", func(ctx *Context) error {
			_, freeErr = NonSendMut[window](ctx)
			return nil
		}),
	)
	if err := s.Run(w, 4); err != nil {
		t.Fatal(err)
	}
	if pinnedErr != nil {
		t.Errorf("pinned system: %v", pinnedErr)
	}
	if !errors.Is(freeErr, ErrNotMainThread) {
		t.Errorf("free system should be refused, got %v", freeErr)
	}
}

func TestSchedule_FailuresAreIsolated(t *testing.T) {
	rec := &bridgeerrors.Recorder{}
	bridgeerrors.SetHandler(rec)
	defer bridgeerrors.SetHandler(nil)

	var ran atomic.Int32
	s := NewSchedule(Update)
	_ = s.Add(
		NewSystem("fails", func(*Context) error { return errors.New("nope") }),
		NewSystem("panics", func(*Context) error { panic("boom") }),
		NewSystem("after", func(*Context) error { ran.Add(1); return nil }).After("fails", "panics"),
	)
	if err := s.Run(NewWorld(), 2); err != nil {
		t.Fatal(err)
	}
	if ran.Load() != 1 {
		t.Error("a failing system must not stop the rest of the schedule")
	}
	errs, panics := rec.Counts()
	if errs != 1 || panics != 1 {
		t.Errorf("reported errors=%d panics=%d, want 1 and 1", errs, panics)
	}
	if st := s.Stats("panics"); st.Failures != 1 {
		t.Errorf("panics stats = %+v", st)
	}
}
