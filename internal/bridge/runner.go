package bridge

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
)

// ErrStopped is returned by Do after Stop.
var ErrStopped = errors.New("bridge: runner stopped")

// Runner owns a Bridge on a dedicated goroutine locked to its OS thread, the
// window thread. Other goroutines reach the bridge through Do.
type Runner struct {
	calls  chan func(*Bridge)
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// NewRunner creates the bridge on the window thread and starts serving calls.
func NewRunner(opts Options) (*Runner, error) {
	r := &Runner{
		calls:  make(chan func(*Bridge)),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	ready := make(chan error, 1)

	go func() {
		defer close(r.exited)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		b, err := New(opts)
		ready <- err
		if err != nil {
			return
		}
		for {
			select {
			case call := <-r.calls:
				call(b)
			case <-r.done:
				b.Shutdown()
				return
			}
		}
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return r, nil
}

// Do runs f with the bridge on the window thread and waits for it.
func (r *Runner) Do(f func(b *Bridge) error) error {
	errc := make(chan error, 1)
	select {
	case r.calls <- func(b *Bridge) {
		defer bridgeerrors.RecoverWithCallback("bridge.Runner.Do", func(v any) {
			errc <- fmt.Errorf("bridge call panicked: %v", v)
		})
		errc <- f(b)
	}:
		return <-errc
	case <-r.done:
		return ErrStopped
	}
}

// Stop shuts the bridge down and waits for the window thread to end.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.done) })
	<-r.exited
}
