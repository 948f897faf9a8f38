package engine

import (
	"fmt"
	"log/slog"
)

// Plugin bundles resources, events and systems that belong together.
type Plugin interface {
	Build(app *App) error
}

// Teardowner is implemented by plugins that release resources on Close.
type Teardowner interface {
	Teardown(app *App)
}

// App owns a world and the schedules of every phase.
type App struct {
	world     *World
	schedules map[Phase]*Schedule
	plugins   []Plugin
	workers   int
	frame     uint64
	logger    *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithWorkers sets how many goroutines may run systems of one stage in
// parallel. Values below 2 run everything on the calling goroutine.
func WithWorkers(n int) Option {
	return func(a *App) { a.workers = n }
}

// WithLogger sets the logger used by the app and its schedules.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates an app with one empty schedule per phase.
func New(opts ...Option) *App {
	a := &App{
		world:     NewWorld(),
		schedules: make(map[Phase]*Schedule, len(Phases)),
		workers:   1,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	for _, p := range Phases {
		sched := NewSchedule(p)
		sched.logger = a.logger
		a.schedules[p] = sched
	}
	return a
}

// World returns the app's world.
func (a *App) World() *World { return a.world }

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Schedule returns the schedule of phase.
func (a *App) Schedule(p Phase) *Schedule { return a.schedules[p] }

// Frame returns the number of completed frames.
func (a *App) Frame() uint64 { return a.frame }

// AddPlugin builds p into the app.
func (a *App) AddPlugin(p Plugin) error {
	if err := p.Build(a); err != nil {
		return fmt.Errorf("build plugin %T: %w", p, err)
	}
	a.plugins = append(a.plugins, p)
	return nil
}

// AddSystems registers systems in the schedule of phase.
func (a *App) AddSystems(p Phase, systems ...*System) error {
	sched, ok := a.schedules[p]
	if !ok {
		return fmt.Errorf("engine: unknown phase %s", p)
	}
	return sched.Add(systems...)
}

// MainContext returns a context pinned to the main goroutine for code that
// runs between frames on the window goroutine, such as window creation.
func (a *App) MainContext() *Context {
	return &Context{world: a.world, main: true}
}

// Update runs one frame: events are advanced, then every phase runs in order.
// It must be called from the goroutine that owns native windows.
func (a *App) Update() error {
	a.world.updateEvents()
	for _, p := range Phases {
		if err := a.schedules[p].Run(a.world, a.workers); err != nil {
			return fmt.Errorf("run %s: %w", p, err)
		}
	}
	a.frame++
	return nil
}

// Close tears plugins down in reverse build order and drops buffered events.
func (a *App) Close() {
	for i := len(a.plugins) - 1; i >= 0; i-- {
		if t, ok := a.plugins[i].(Teardowner); ok {
			t.Teardown(a)
		}
	}
	a.plugins = nil
	a.world.mu.RLock()
	defer a.world.mu.RUnlock()
	for _, q := range a.world.events {
		q.clear()
	}
}
