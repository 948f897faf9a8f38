package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/winit"
)

// maxStepFrames caps a single step call.
const maxStepFrames = 1000

// WindowsResult is the list_windows response.
type WindowsResult struct {
	Session                string           `yaml:"session"                 json:"session"`
	Windows                []model.Window   `yaml:"windows"                 json:"windows"`
	Adapters               []model.WindowID `yaml:"adapters"                json:"adapters"`
	Handlers               []model.WindowID `yaml:"handlers"                json:"handlers"`
	AccessibilityRequested bool             `yaml:"accessibility_requested" json:"accessibility_requested"`
	ManageUpdates          bool             `yaml:"manage_updates"          json:"manage_updates"`
}

// toText serializes v to YAML for an MCP response.
func toText(v any) *mcp.CallToolResult {
	s, err := output.Marshal(output.FormatYAML, v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(s)
}

// resolveWindow accepts an open window's name or an id like "w3" or "3".
func resolveWindow(b *bridge.Bridge, ref string) (model.WindowID, error) {
	for _, w := range b.Windows() {
		if w.Name == ref {
			return w.ID, nil
		}
	}
	var id model.WindowID
	if err := id.UnmarshalText([]byte(ref)); err != nil {
		return 0, fmt.Errorf("%w: %q", bridge.ErrUnknownWindow, ref)
	}
	return id, nil
}

func (s *Server) handleOpenWindow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := stringParam(params, "name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	opts := winit.WindowOptions{
		Name:    name,
		Title:   stringParam(params, "title", name),
		Primary: boolParam(params, "primary", false),
	}

	var win model.Window
	err := s.runner.Do(func(b *bridge.Bridge) error {
		for _, w := range b.Windows() {
			if w.Name == name {
				return fmt.Errorf("window %q is already open as %s", name, w.ID)
			}
		}
		id, err := b.Open(opts)
		if err != nil {
			return err
		}
		win = model.Window{ID: id, Name: opts.Name, Title: opts.Title, Primary: opts.Primary}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(win), nil
}

func (s *Server) handleCloseWindow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := stringParam(request.GetArguments(), "window", "")

	var closed bool
	var id model.WindowID
	err := s.runner.Do(func(b *bridge.Bridge) error {
		var err error
		if id, err = resolveWindow(b, ref); err != nil {
			return err
		}
		closed = b.Close(id)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(map[string]any{"window": id, "closed": closed}), nil
}

func (s *Server) handleRequestAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	ref := stringParam(params, "window", "")
	action, err := model.ParseAction(stringParam(params, "action", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target := intParam(params, "target", 0)
	if target < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid target %d", target)), nil
	}
	req := model.ActionRequest{Action: action, Target: model.NodeID(target), Value: stringParam(params, "value", "")}

	var id model.WindowID
	err = s.runner.Do(func(b *bridge.Bridge) error {
		var err error
		if id, err = resolveWindow(b, ref); err != nil {
			return err
		}
		return b.Request(id, req)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(model.ActionRequestEvent{Window: id, Request: req}), nil
}

func (s *Server) handleStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := intParam(request.GetArguments(), "frames", 1)
	if n < 1 || n > maxStepFrames {
		return mcp.NewToolResultError(fmt.Sprintf("frames must be between 1 and %d", maxStepFrames)), nil
	}

	frames := make([]bridge.FrameResult, 0, n)
	err := s.runner.Do(func(b *bridge.Bridge) error {
		for range n {
			fr, err := b.Step()
			if err != nil {
				return err
			}
			frames = append(frames, fr)
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(frames), nil
}

func (s *Server) handleListWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := WindowsResult{Session: s.session.String()}
	err := s.runner.Do(func(b *bridge.Bridge) error {
		res.Windows = b.Windows()
		res.Adapters, res.Handlers = b.Registered()
		res.AccessibilityRequested, res.ManageUpdates = b.Flags()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(res), nil
}

func (s *Server) handleSetFlags(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	var requested, manage bool
	err := s.runner.Do(func(b *bridge.Bridge) error {
		requested, manage = b.Flags()
		requested = boolParam(params, "accessibility_requested", requested)
		manage = boolParam(params, "manage_updates", manage)
		b.SetFlags(requested, manage)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toText(map[string]bool{
		"accessibility_requested": requested,
		"manage_updates":          manage,
	}), nil
}
