package a11y

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// AccessibilityRequested records whether an assistive technology asked for
// the accessibility tree. Platform callbacks flip it from their own threads.
type AccessibilityRequested struct {
	v atomic.Bool
}

// NewAccessibilityRequested creates the flag with an initial value.
func NewAccessibilityRequested(v bool) *AccessibilityRequested {
	r := &AccessibilityRequested{}
	r.v.Store(v)
	return r
}

// Get returns the current value.
func (r *AccessibilityRequested) Get() bool { return r.v.Load() }

// Set stores a new value.
func (r *AccessibilityRequested) Set(v bool) { r.v.Store(v) }

// ManageUpdates tells the bridge whether it owns tree updates. Higher level
// code turns it off when it pushes trees to the adapters itself.
type ManageUpdates struct {
	v atomic.Bool
}

// NewManageUpdates creates the flag with an initial value.
func NewManageUpdates(v bool) *ManageUpdates {
	m := &ManageUpdates{}
	m.v.Store(v)
	return m
}

// Get returns the current value.
func (m *ManageUpdates) Get() bool { return m.v.Load() }

// Set stores a new value.
func (m *ManageUpdates) Set(v bool) { m.v.Store(v) }

// Focus is the node that currently holds keyboard focus, zero if none.
type Focus struct {
	mu   sync.RWMutex
	node model.NodeID
}

// Get returns the focused node.
func (f *Focus) Get() model.NodeID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.node
}

// Set moves focus to node.
func (f *Focus) Set(node model.NodeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.node = node
}

// PrimaryWindow names the application's main window, zero if none is open.
type PrimaryWindow struct {
	mu     sync.RWMutex
	window model.WindowID
}

// Get returns the primary window.
func (p *PrimaryWindow) Get() model.WindowID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window
}

// Set marks w as the primary window.
func (p *PrimaryWindow) Set(w model.WindowID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.window = w
}

// Nodes holds the entities carrying accessibility information together with
// their parent/child relations.
type Nodes struct {
	mu sync.RWMutex
	m  map[model.NodeID]model.Node
}

// Insert adds or replaces a node.
func (n *Nodes) Insert(node model.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.m == nil {
		n.m = make(map[model.NodeID]model.Node)
	}
	n.m[node.ID] = node
}

// Remove drops a node.
func (n *Nodes) Remove(id model.NodeID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.m, id)
}

// Get returns a node by id.
func (n *Nodes) Get(id model.NodeID) (model.Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	node, ok := n.m[id]
	return node, ok
}

// Len returns the number of nodes.
func (n *Nodes) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.m)
}

// All returns a copy of every node ordered by id.
func (n *Nodes) All() []model.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]model.Node, 0, len(n.m))
	for _, id := range slices.Sorted(maps.Keys(n.m)) {
		out = append(out, n.m[id])
	}
	return out
}
