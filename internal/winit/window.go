// Package winit stands in for the native windowing layer: it owns window
// objects, hands their identities to the engine and forwards accessibility
// action requests from the platform thread to the installed handler.
package winit

import (
	"sync"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// NativeWindow is one OS window.
type NativeWindow struct {
	id      model.WindowID
	name    string
	title   string
	primary bool

	mu      sync.Mutex
	handler platform.ActionHandler
}

// ID returns the engine identity of the window.
func (w *NativeWindow) ID() model.WindowID { return w.id }

// Title returns the window title.
func (w *NativeWindow) Title() string { return w.title }

// SetActionHandler installs the accessibility action callback.
func (w *NativeWindow) SetActionHandler(h platform.ActionHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = h
}

// Deliver hands an action request to the installed handler, as the OS does
// when an assistive technology acts on the window. It is safe to call from any
// goroutine and reports false when no handler is installed.
func (w *NativeWindow) Deliver(req model.ActionRequest) bool {
	w.mu.Lock()
	h := w.handler
	w.mu.Unlock()
	if h == nil {
		return false
	}
	h(req)
	return true
}

// Release drops the action handler, and with it the windowing layer's
// reference to the request queue.
func (w *NativeWindow) Release() {
	w.SetActionHandler(nil)
}

// Model returns the engine-facing description of the window.
func (w *NativeWindow) Model() model.Window {
	return model.Window{ID: w.id, Name: w.name, Title: w.title, Primary: w.primary}
}
