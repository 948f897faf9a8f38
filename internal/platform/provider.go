package platform

import (
	"fmt"
	"runtime"
)

// AdapterFactory constructs the platform adapter for a freshly created window.
// name is the accessible name of the window; active reports whether an
// assistive technology has already requested the accessibility tree.
type AdapterFactory func(win Window, name string, active bool) (*Adapter, error)

// ErrUnsupported is returned when no adapter backend has been registered.
var ErrUnsupported = fmt.Errorf("accessibility adapters are not supported on %s/%s", runtime.GOOS, runtime.GOARCH)

// NewAdapterFunc is set by backend packages via init().
// See internal/platform/headless for the in-process backend.
var NewAdapterFunc AdapterFactory

// NewAdapter returns an adapter from the registered backend.
func NewAdapter(win Window, name string, active bool) (*Adapter, error) {
	if NewAdapterFunc == nil {
		return nil, ErrUnsupported
	}
	return NewAdapterFunc(win, name, active)
}
