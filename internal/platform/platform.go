package platform

import "github.com/mj1618/a11y-bridge/internal/model"

// ActionHandler receives action requests for one window. The windowing layer
// calls it from whatever thread the OS delivers accessibility callbacks on.
type ActionHandler func(req model.ActionRequest)

// Window is the part of a native window the accessibility bridge needs.
type Window interface {
	// ID returns the engine identity of the window.
	ID() model.WindowID

	// Title returns the current window title.
	Title() string

	// SetActionHandler installs the producer callback for action requests.
	// Passing nil releases the previous handler.
	SetActionHandler(h ActionHandler)
}
