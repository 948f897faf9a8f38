package a11y

import (
	"github.com/mj1618/a11y-bridge/internal/engine"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// SystemSet tags every accessibility system of the frame.
const SystemSet = "a11y.update"

// System names, usable as ordering targets by other plugins.
const (
	WindowClosedSystem  = "a11y.windowClosed"
	PollReceiversSystem = "a11y.pollReceivers"
	UpdateNodesSystem   = "a11y.updateNodes"
)

// Plugin installs the accessibility bridge into an app.
type Plugin struct{}

// Build creates the registries, declares the ActionRequestEvent stream and
// registers the frame systems in engine.PostUpdate. Flags, Focus,
// PrimaryWindow and Nodes are created with defaults unless already present;
// ManageUpdates defaults to true.
func (Plugin) Build(app *engine.App) error {
	w := app.World()
	engine.InsertNonSend(w, NewAdapters())
	engine.InsertResource(w, NewHandlers())

	if _, ok := engine.GetResource[AccessibilityRequested](w); !ok {
		engine.InsertResource(w, NewAccessibilityRequested(false))
	}
	if _, ok := engine.GetResource[ManageUpdates](w); !ok {
		engine.InsertResource(w, NewManageUpdates(true))
	}
	engine.InitResource[Focus](w)
	engine.InitResource[PrimaryWindow](w)
	engine.InitResource[Nodes](w)

	engine.AddEvent[model.WindowClosed](w)
	engine.AddEvent[model.ActionRequestEvent](w)

	return app.AddSystems(engine.PostUpdate,
		engine.NewSystem(PollReceiversSystem, pollReceivers(app.Logger())).
			InSet(SystemSet),
		engine.NewSystem(UpdateNodesSystem, updateNodes()).
			InSet(SystemSet).
			NonSend().
			RunIf(ShouldUpdateNodes),
		engine.NewSystem(WindowClosedSystem, windowClosed()).
			InSet(SystemSet).
			NonSend().
			Before(PollReceiversSystem, UpdateNodesSystem),
	)
}

// Teardown drops both registries. Producers still holding a queue can keep
// enqueueing; those requests are never drained.
func (Plugin) Teardown(app *engine.App) {
	w := app.World()
	ctx := app.MainContext()
	if adapters, err := engine.NonSendMut[Adapters](ctx); err == nil {
		adapters.Clear()
	}
	if handlers, err := engine.Res[Handlers](ctx); err == nil {
		handlers.Clear()
	}
	engine.RemoveNonSend[Adapters](w)
	engine.RemoveResource[Handlers](w)
}
