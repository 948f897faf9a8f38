package errors

import (
	"log/slog"
	"sync"
)

// LogHandler is a Handler that writes reports to a slog.Logger.
type LogHandler struct {
	// Logger receives the reports; nil means slog.Default().
	Logger *slog.Logger
	// Verbose adds stack traces to panic reports.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a BridgeError at error level.
func (h *LogHandler) HandleError(err *BridgeError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "error", err.Err}
	if err.Window != 0 {
		attrs = append(attrs, "window", err.Window.String())
	}
	h.logger().Error("bridge error", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("bridge panic", attrs...)
}

// Recorder is a Handler that keeps every report in memory. Tests install it
// with SetHandler to assert on reported faults.
type Recorder struct {
	mu     sync.Mutex
	Errors []*BridgeError
	Panics []*PanicError
}

func (r *Recorder) HandleError(err *BridgeError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
}

func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Panics = append(r.Panics, err)
}

// Counts returns the number of recorded errors and panics.
func (r *Recorder) Counts() (errs, panics int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors), len(r.Panics)
}
