package a11y

import (
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/engine"
	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// PrepareWindow sets up accessibility for a freshly created window: it builds
// the adapter through newAdapter, installs a new RequestQueue as the window's
// action handler and registers both under id. If the adapter cannot be built
// nothing is registered and the window is left untouched. A nil newAdapter
// uses the registered platform backend.
//
// It must run on the goroutine that owns native windows, between frames.
func PrepareWindow(
	win platform.Window,
	id model.WindowID,
	name string,
	requested *AccessibilityRequested,
	adapters *Adapters,
	handlers *Handlers,
	newAdapter platform.AdapterFactory,
) error {
	if newAdapter == nil {
		newAdapter = platform.NewAdapter
	}
	active := requested != nil && requested.Get()

	queue := NewRequestQueue()
	adapter, err := newAdapter(win, name, active)
	if err != nil {
		return &bridgeerrors.BridgeError{
			Op:     "a11y.PrepareWindow",
			Kind:   bridgeerrors.KindAdapter,
			Window: id,
			Err:    err,
		}
	}
	if adapter == nil {
		return &bridgeerrors.BridgeError{
			Op:     "a11y.PrepareWindow",
			Kind:   bridgeerrors.KindAdapter,
			Window: id,
			Err:    fmt.Errorf("adapter factory returned nil"),
		}
	}

	win.SetActionHandler(queue.Enqueue)
	adapters.Insert(id, adapter)
	handlers.Insert(id, queue)
	return nil
}

// PrepareWindowIn is PrepareWindow with the registries and the requested flag
// taken from the world. ctx must be a main-goroutine context.
func PrepareWindowIn(ctx *engine.Context, win platform.Window, name string, newAdapter platform.AdapterFactory) error {
	adapters, err := engine.NonSendMut[Adapters](ctx)
	if err != nil {
		return err
	}
	handlers, err := engine.Res[Handlers](ctx)
	if err != nil {
		return err
	}
	requested, _ := engine.GetResource[AccessibilityRequested](ctx.World())
	return PrepareWindow(win, win.ID(), name, requested, adapters, handlers, newAdapter)
}
