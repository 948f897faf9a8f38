// Package scenario loads YAML scripts that open windows, deliver action
// requests, close windows and step frames on a bridge.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/a11y-bridge/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidStep is returned for steps that name zero or several operations.
var ErrInvalidStep = errors.New("scenario: step must name exactly one of open, request, close, flags, frame")

// Scenario is a parsed scenario file. Nil flags leave the bridge as configured.
type Scenario struct {
	Name                   string `yaml:"name,omitempty"`
	AccessibilityRequested *bool  `yaml:"accessibility_requested,omitempty"`
	ManageUpdates          *bool  `yaml:"manage_updates,omitempty"`
	Steps                  []Step `yaml:"steps"`
}

// Step is one scripted operation.
type Step struct {
	Open    *OpenStep    `yaml:"open,omitempty"`
	Request *RequestStep `yaml:"request,omitempty"`
	Close   *CloseStep   `yaml:"close,omitempty"`
	Flags   *FlagsStep   `yaml:"flags,omitempty"`
	Frame   int          `yaml:"frame,omitempty"`
}

type OpenStep struct {
	Window  string `yaml:"window"`
	Title   string `yaml:"title,omitempty"`
	Primary bool   `yaml:"primary,omitempty"`
}

type RequestStep struct {
	Window string       `yaml:"window"`
	Action model.Action `yaml:"action"`
	Target model.NodeID `yaml:"target"`
	Value  string       `yaml:"value,omitempty"`
}

type CloseStep struct {
	Window string `yaml:"window"`
}

type FlagsStep struct {
	AccessibilityRequested *bool `yaml:"accessibility_requested,omitempty"`
	ManageUpdates          *bool `yaml:"manage_updates,omitempty"`
}

func (s Step) kind() (string, error) {
	var kinds []string
	if s.Open != nil {
		kinds = append(kinds, "open")
	}
	if s.Request != nil {
		kinds = append(kinds, "request")
	}
	if s.Close != nil {
		kinds = append(kinds, "close")
	}
	if s.Flags != nil {
		kinds = append(kinds, "flags")
	}
	if s.Frame != 0 {
		kinds = append(kinds, "frame")
	}
	if len(kinds) != 1 {
		return "", ErrInvalidStep
	}
	return kinds[0], nil
}

// Validate checks step shapes and symbolic window names.
func (sc *Scenario) Validate() error {
	open := make(map[string]bool)
	known := make(map[string]bool)
	for i, s := range sc.Steps {
		kind, err := s.kind()
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		switch kind {
		case "open":
			if s.Open.Window == "" {
				return fmt.Errorf("step %d: open needs a window name", i+1)
			}
			if open[s.Open.Window] {
				return fmt.Errorf("step %d: window %q is already open", i+1, s.Open.Window)
			}
			open[s.Open.Window] = true
			known[s.Open.Window] = true
		case "request":
			if !known[s.Request.Window] {
				return fmt.Errorf("step %d: unknown window %q", i+1, s.Request.Window)
			}
		case "close":
			if !known[s.Close.Window] {
				return fmt.Errorf("step %d: unknown window %q", i+1, s.Close.Window)
			}
			delete(open, s.Close.Window)
		case "frame":
			if s.Frame < 0 {
				return fmt.Errorf("step %d: frame count %d is negative", i+1, s.Frame)
			}
		}
	}
	return nil
}

// Load parses and validates a scenario.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return &sc, nil
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads a scenario from disk.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}
