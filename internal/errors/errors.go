// Package errors provides structured error reporting for the accessibility bridge.
//
// Faults that must not stop the frame loop (a poisoned request queue, a system
// that panicked) are reported here instead of being returned to the scheduler.
package errors

import (
	"fmt"
	"time"

	"github.com/mj1618/a11y-bridge/internal/model"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindAdapter indicates a platform adapter could not be created or updated.
	KindAdapter
	// KindQueue indicates a per-window request queue fault.
	KindQueue
	// KindSystem indicates an engine system returned an error.
	KindSystem
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindAdapter:
		return "adapter"
	case KindQueue:
		return "queue"
	case KindSystem:
		return "system"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// BridgeError is a structured error raised somewhere in the bridge.
type BridgeError struct {
	// Op is the operation that failed (e.g. "a11y.pollReceivers").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Window is the affected window, zero if not window specific.
	Window model.WindowID
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BridgeError) Error() string {
	if e.Window != 0 {
		return fmt.Sprintf("%s [%s] window=%s: %v", e.Op, e.Kind, e.Window, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g. "engine.PostUpdate/a11y.updateNodes").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the bridge.
type Handler interface {
	HandleError(err *BridgeError)
	HandlePanic(err *PanicError)
}
