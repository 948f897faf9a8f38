package scenario

import (
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/winit"
)

// Result is the outcome of a run.
type Result struct {
	Name    string               `yaml:"name,omitempty"    json:"name,omitempty"`
	Frames  []bridge.FrameResult `yaml:"frames"            json:"frames"`
	Dropped int                  `yaml:"dropped,omitempty" json:"dropped,omitempty"`
	// Windows lists every window the run opened, in open order.
	Windows []model.Window `yaml:"windows" json:"windows"`
}

// Events returns all emitted events in frame order.
func (r *Result) Events() []model.ActionRequestEvent {
	var out []model.ActionRequestEvent
	for _, f := range r.Frames {
		out = append(out, f.Events...)
	}
	return out
}

// Run executes the scenario on b. Requests are delivered through the
// window's producer, which keeps working after the window closed; requests
// it refuses are counted as dropped.
func (sc *Scenario) Run(b *bridge.Bridge) (*Result, error) {
	requested, manage := b.Flags()
	if sc.AccessibilityRequested != nil {
		requested = *sc.AccessibilityRequested
	}
	if sc.ManageUpdates != nil {
		manage = *sc.ManageUpdates
	}
	b.SetFlags(requested, manage)

	res := &Result{Name: sc.Name, Frames: []bridge.FrameResult{}, Windows: []model.Window{}}
	ids := make(map[string]model.WindowID)
	producers := make(map[string]func(model.ActionRequest) bool)

	for i, s := range sc.Steps {
		kind, err := s.kind()
		if err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		switch kind {
		case "open":
			id, err := b.Open(winit.WindowOptions{Name: s.Open.Window, Title: s.Open.Title, Primary: s.Open.Primary})
			if err != nil {
				return res, fmt.Errorf("step %d: open %q: %w", i+1, s.Open.Window, err)
			}
			ids[s.Open.Window] = id
			producers[s.Open.Window], _ = b.Producer(id)
			res.Windows = append(res.Windows, model.Window{ID: id, Name: s.Open.Window, Title: s.Open.Title, Primary: s.Open.Primary})
		case "request":
			deliver, ok := producers[s.Request.Window]
			if !ok {
				return res, fmt.Errorf("step %d: unknown window %q", i+1, s.Request.Window)
			}
			req := model.ActionRequest{Action: s.Request.Action, Target: s.Request.Target, Value: s.Request.Value}
			if !deliver(req) {
				res.Dropped++
			}
		case "close":
			id, ok := ids[s.Close.Window]
			if !ok {
				return res, fmt.Errorf("step %d: unknown window %q", i+1, s.Close.Window)
			}
			b.Close(id)
		case "flags":
			if s.Flags.AccessibilityRequested != nil {
				requested = *s.Flags.AccessibilityRequested
			}
			if s.Flags.ManageUpdates != nil {
				manage = *s.Flags.ManageUpdates
			}
			b.SetFlags(requested, manage)
		case "frame":
			for range s.Frame {
				fr, err := b.Step()
				if err != nil {
					return res, fmt.Errorf("step %d: frame: %w", i+1, err)
				}
				res.Frames = append(res.Frames, fr)
			}
		}
	}
	return res, nil
}
