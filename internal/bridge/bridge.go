// Package bridge assembles an engine app, the windowing layer and the
// accessibility plugin into one runtime driven frame by frame.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mj1618/a11y-bridge/internal/a11y"
	"github.com/mj1618/a11y-bridge/internal/engine"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/winit"
)

// ErrUnknownWindow is returned when a request targets a window that is not open.
var ErrUnknownWindow = errors.New("bridge: unknown window")

// Options configures a Bridge.
type Options struct {
	Workers                int
	AccessibilityRequested bool
	ManageUpdates          bool
	NewAdapter             platform.AdapterFactory
	Logger                 *slog.Logger
}

// FrameResult is what one frame produced.
type FrameResult struct {
	Frame        uint64                     `yaml:"frame"                   json:"frame"`
	Events       []model.ActionRequestEvent `yaml:"events"                  json:"events"`
	UpdatedNodes bool                       `yaml:"updated_nodes,omitempty" json:"updated_nodes,omitempty"`
}

// Bridge is not safe for concurrent use: every method must be called from the
// goroutine that owns the windows. Use a Runner to share it.
type Bridge struct {
	app     *engine.App
	windows *winit.Manager
	reader  engine.EventReader[model.ActionRequestEvent]
	logger  *slog.Logger
}

// New builds an app with the accessibility plugin and a window manager.
func New(opts Options) (*Bridge, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := engine.New(engine.WithWorkers(opts.Workers), engine.WithLogger(logger))
	w := app.World()
	engine.InsertResource(w, a11y.NewAccessibilityRequested(opts.AccessibilityRequested))
	engine.InsertResource(w, a11y.NewManageUpdates(opts.ManageUpdates))
	if err := app.AddPlugin(a11y.Plugin{}); err != nil {
		return nil, err
	}
	return &Bridge{
		app:     app,
		windows: winit.NewManager(app, opts.NewAdapter),
		logger:  logger,
	}, nil
}

// App exposes the underlying engine app.
func (b *Bridge) App() *engine.App { return b.app }

// Open opens a window and returns its id.
func (b *Bridge) Open(opts winit.WindowOptions) (model.WindowID, error) {
	win, err := b.windows.Open(opts)
	if err != nil {
		return 0, err
	}
	return win.ID(), nil
}

// Close closes a window. Closing an unknown window only emits the signal.
func (b *Bridge) Close(id model.WindowID) bool {
	return b.windows.Close(id)
}

// Request delivers an action request to a window from a separate goroutine,
// the way the OS calls back into the windowing layer, and waits until the
// request has been handed over.
func (b *Bridge) Request(id model.WindowID, req model.ActionRequest) error {
	win, ok := b.windows.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	delivered := make(chan bool)
	go func() { delivered <- win.Deliver(req) }()
	if !<-delivered {
		return fmt.Errorf("%w: %s has no action handler", ErrUnknownWindow, id)
	}
	return nil
}

// Producer returns the window's delivery function. It stays callable after
// the window closed; requests sent then are dropped.
func (b *Bridge) Producer(id model.WindowID) (func(model.ActionRequest) bool, bool) {
	win, ok := b.windows.Get(id)
	if !ok {
		return nil, false
	}
	return win.Deliver, true
}

// Step runs one frame and returns the action requests it emitted.
func (b *Bridge) Step() (FrameResult, error) {
	sched := b.app.Schedule(engine.PostUpdate)
	before := sched.Stats(a11y.UpdateNodesSystem).Runs
	if err := b.app.Update(); err != nil {
		return FrameResult{}, err
	}
	events, _ := engine.EventsOf[model.ActionRequestEvent](b.app.World())
	res := FrameResult{
		Frame:        b.app.Frame(),
		Events:       b.reader.Read(events),
		UpdatedNodes: sched.Stats(a11y.UpdateNodesSystem).Runs > before,
	}
	if res.Events == nil {
		res.Events = []model.ActionRequestEvent{}
	}
	b.logger.Debug("frame", "frame", res.Frame, "events", len(res.Events), "updated_nodes", res.UpdatedNodes)
	return res, nil
}

// SetFlags updates the gating flags.
func (b *Bridge) SetFlags(requested, manage bool) {
	w := b.app.World()
	if r, ok := engine.GetResource[a11y.AccessibilityRequested](w); ok {
		r.Set(requested)
	}
	if m, ok := engine.GetResource[a11y.ManageUpdates](w); ok {
		m.Set(manage)
	}
}

// Flags returns the gating flags.
func (b *Bridge) Flags() (requested, manage bool) {
	w := b.app.World()
	if r, ok := engine.GetResource[a11y.AccessibilityRequested](w); ok {
		requested = r.Get()
	}
	if m, ok := engine.GetResource[a11y.ManageUpdates](w); ok {
		manage = m.Get()
	}
	return requested, manage
}

// Windows lists the open windows.
func (b *Bridge) Windows() []model.Window {
	return b.windows.Windows()
}

// Registered returns the windows present in the adapter and handler registries.
func (b *Bridge) Registered() (adapters, handlers []model.WindowID) {
	if a, err := engine.NonSendMut[a11y.Adapters](b.app.MainContext()); err == nil {
		adapters = a.Keys()
	}
	if h, ok := engine.GetResource[a11y.Handlers](b.app.World()); ok {
		handlers = h.Keys()
	}
	return adapters, handlers
}

// Shutdown tears the plugin down. Producers that still hold a queue may keep
// delivering; nothing drains those requests any more.
func (b *Bridge) Shutdown() {
	b.app.Close()
}
