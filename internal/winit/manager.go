package winit

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/mj1618/a11y-bridge/internal/a11y"
	"github.com/mj1618/a11y-bridge/internal/engine"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// WindowOptions describes a window to open.
type WindowOptions struct {
	Name    string // accessible name; defaults to Title
	Title   string
	Primary bool
}

// Manager opens and closes native windows on behalf of an app. It must be used
// from the goroutine that runs the app's frames.
type Manager struct {
	app        *engine.App
	newAdapter platform.AdapterFactory
	logger     *slog.Logger

	next    model.WindowID
	windows map[model.WindowID]*NativeWindow
}

// NewManager creates a manager for app. The app must already have the a11y
// plugin. A nil newAdapter uses the registered platform backend.
func NewManager(app *engine.App, newAdapter platform.AdapterFactory) *Manager {
	engine.AddEvent[model.WindowClosed](app.World())
	return &Manager{
		app:        app,
		newAdapter: newAdapter,
		logger:     app.Logger(),
		windows:    make(map[model.WindowID]*NativeWindow),
	}
}

// Open creates a window and prepares accessibility for it. When preparation
// fails the window is destroyed again and the error returned.
func (m *Manager) Open(opts WindowOptions) (*NativeWindow, error) {
	m.next++
	name := opts.Name
	if name == "" {
		name = opts.Title
	}
	win := &NativeWindow{id: m.next, name: name, title: opts.Title, primary: opts.Primary}

	if err := a11y.PrepareWindowIn(m.app.MainContext(), win, name, m.newAdapter); err != nil {
		return nil, fmt.Errorf("open window %q: %w", name, err)
	}
	m.windows[win.id] = win

	if opts.Primary {
		primary := engine.InitResource[a11y.PrimaryWindow](m.app.World())
		primary.Set(win.id)
	}
	m.logger.Debug("window opened", "window", win.id.String(), "name", name, "primary", opts.Primary)
	return win, nil
}

// Close destroys the window and emits WindowClosed for it. The signal is sent
// even for unknown or already closed windows; reports whether the window was open.
func (m *Manager) Close(id model.WindowID) bool {
	win, ok := m.windows[id]
	if ok {
		delete(m.windows, id)
		win.Release()
		if primary, found := engine.GetResource[a11y.PrimaryWindow](m.app.World()); found && primary.Get() == id {
			primary.Set(0)
		}
	}
	if ev, found := engine.EventsOf[model.WindowClosed](m.app.World()); found {
		ev.Send(model.WindowClosed{Window: id})
	}
	m.logger.Debug("window closed", "window", id.String(), "known", ok)
	return ok
}

// Get returns an open window.
func (m *Manager) Get(id model.WindowID) (*NativeWindow, bool) {
	win, ok := m.windows[id]
	return win, ok
}

// Windows lists the open windows by id.
func (m *Manager) Windows() []model.Window {
	out := make([]model.Window, 0, len(m.windows))
	for _, id := range slices.Sorted(maps.Keys(m.windows)) {
		out = append(out, m.windows[id].Model())
	}
	return out
}
