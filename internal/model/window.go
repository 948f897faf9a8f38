package model

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowID identifies a native window. IDs are allocated by the windowing layer
// and never reused within a process.
type WindowID uint64

func (id WindowID) String() string {
	return "w" + strconv.FormatUint(uint64(id), 10)
}

// Window describes an open window as seen by the engine.
type Window struct {
	ID      WindowID `yaml:"id"                json:"id"`
	Name    string   `yaml:"name"              json:"name"`
	Title   string   `yaml:"title,omitempty"   json:"title,omitempty"`
	Primary bool     `yaml:"primary,omitempty" json:"primary,omitempty"`
}

// WindowClosed is sent by the windowing layer once a window has been destroyed.
type WindowClosed struct {
	Window WindowID
}

// MarshalText encodes the ID in its "w<n>" form.
func (id WindowID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText accepts both "w<n>" and a bare number.
func (id *WindowID) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "w")
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid window id %q: %w", text, err)
	}
	*id = WindowID(n)
	return nil
}
