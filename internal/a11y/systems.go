package a11y

import (
	"fmt"
	"log/slog"

	"github.com/mj1618/a11y-bridge/internal/engine"
	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// windowClosed drops the adapter and the queue of every window closed since
// the previous run.
func windowClosed() engine.SystemFunc {
	var reader engine.EventReader[model.WindowClosed]
	return func(ctx *engine.Context) error {
		adapters, err := engine.NonSendMut[Adapters](ctx)
		if err != nil {
			return err
		}
		handlers, err := engine.Res[Handlers](ctx)
		if err != nil {
			return err
		}
		closed, err := engine.EventWriter[model.WindowClosed](ctx)
		if err != nil {
			return err
		}
		for _, ev := range reader.Read(closed) {
			adapters.Remove(ev.Window)
			handlers.Remove(ev.Window)
		}
		return nil
	}
}

// pollReceivers moves pending requests of every window onto the
// ActionRequestEvent stream. A faulty queue is reported, recovered in place
// and skipped; the other windows are still drained.
func pollReceivers(logger *slog.Logger) engine.SystemFunc {
	return func(ctx *engine.Context) error {
		handlers, err := engine.Res[Handlers](ctx)
		if err != nil {
			return err
		}
		out, err := engine.EventWriter[model.ActionRequestEvent](ctx)
		if err != nil {
			return err
		}
		handlers.Range(func(w model.WindowID, q *RequestQueue) bool {
			if err := drainQueue(w, q, out); err != nil {
				bridgeerrors.Report(&bridgeerrors.BridgeError{
					Op:     "a11y.pollReceivers",
					Kind:   bridgeerrors.KindQueue,
					Window: w,
					Err:    err,
				})
				discarded := q.Recover()
				logger.Warn("recovered poisoned request queue",
					"window", w.String(),
					"discarded", discarded)
			}
			return true
		})
		return nil
	}
}

func drainQueue(w model.WindowID, q *RequestQueue, out *engine.Events[model.ActionRequestEvent]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: drain panicked: %v", ErrPoisoned, r)
		}
	}()
	_, err = q.DrainInto(func(req model.ActionRequest) {
		out.Send(model.ActionRequestEvent{Window: w, Request: req})
	})
	return err
}

// updateNodes reconciles each adapter's tree with the node world. Tree
// construction is not part of the bridge yet: the system gathers its inputs
// and returns, leaving the adapters untouched.
func updateNodes() engine.SystemFunc {
	return func(ctx *engine.Context) error {
		adapters, err := engine.NonSendMut[Adapters](ctx)
		if err != nil {
			return err
		}
		focus, err := engine.Res[Focus](ctx)
		if err != nil {
			return err
		}
		primary, err := engine.Res[PrimaryWindow](ctx)
		if err != nil {
			return err
		}
		nodes, err := engine.Res[Nodes](ctx)
		if err != nil {
			return err
		}
		nodeUpdate{
			adapters: adapters,
			focus:    focus.Get(),
			primary:  primary.Get(),
			nodes:    nodes,
		}.apply()
		return nil
	}
}

// nodeUpdate is the read-only input of one node reconciliation pass.
type nodeUpdate struct {
	adapters *Adapters
	focus    model.NodeID
	primary  model.WindowID
	nodes    *Nodes
}

// TODO: build a platform.TreeUpdate per window from nodes and push it with
// Adapter.UpdateIfActive once node-to-window ownership is modelled.
func (u nodeUpdate) apply() {}

// ShouldUpdateNodes is the run condition of the node update system: the
// accessibility tree was requested and the bridge manages updates.
func ShouldUpdateNodes(ctx *engine.Context) bool {
	requested, err := engine.Res[AccessibilityRequested](ctx)
	if err != nil {
		return false
	}
	manage, err := engine.Res[ManageUpdates](ctx)
	if err != nil {
		return false
	}
	return requested.Get() && manage.Get()
}
