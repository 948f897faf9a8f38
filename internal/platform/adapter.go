package platform

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// ErrNilWindow is returned when an adapter is requested for a nil window.
var ErrNilWindow = errors.New("platform: nil window")

// Adapter exposes one window's accessibility tree to assistive technologies.
// It is not safe for concurrent use and must stay on the goroutine that owns
// native windows.
type Adapter struct {
	handle uuid.UUID
	window model.WindowID
	name   string
	active bool

	updates int
	last    *TreeUpdate
}

// NewHeadlessAdapter creates an adapter that keeps the pushed tree in memory.
func NewHeadlessAdapter(win Window, name string, active bool) (*Adapter, error) {
	if win == nil {
		return nil, ErrNilWindow
	}
	if name == "" {
		name = win.Title()
	}
	return &Adapter{
		handle: uuid.New(),
		window: win.ID(),
		name:   name,
		active: active,
	}, nil
}

// Handle returns the unique handle of this adapter instance.
func (a *Adapter) Handle() uuid.UUID { return a.handle }

// Window returns the window the adapter belongs to.
func (a *Adapter) Window() model.WindowID { return a.window }

// Name returns the accessible name of the window.
func (a *Adapter) Name() string { return a.name }

// Active reports whether an assistive technology is consuming the tree.
func (a *Adapter) Active() bool { return a.active }

// SetActive switches the adapter on or off.
func (a *Adapter) SetActive(active bool) {
	a.active = active
	if !active {
		a.last = nil
	}
}

// UpdateIfActive pushes the tree produced by build when the adapter is active.
// build is not called otherwise. Invalid trees are rejected.
func (a *Adapter) UpdateIfActive(build func() TreeUpdate) (bool, error) {
	if !a.active {
		return false, nil
	}
	update := build()
	if err := update.Validate(); err != nil {
		return false, err
	}
	a.last = &update
	a.updates++
	return true, nil
}

// Updates returns the number of tree updates pushed so far.
func (a *Adapter) Updates() int { return a.updates }

// LastUpdate returns the most recently pushed tree, nil if none.
func (a *Adapter) LastUpdate() *TreeUpdate { return a.last }
