// Package server exposes a bridge over the Model Context Protocol so agents
// can open windows, deliver action requests and step frames.
package server

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server around a bridge runner.
type Server struct {
	runner  *bridge.Runner
	mcp     *mcpserver.MCPServer
	session uuid.UUID
	logger  *slog.Logger
}

// New creates a server with all tools registered. The server owns runner and
// stops it on Close.
func New(runner *bridge.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		runner:  runner,
		session: uuid.New(),
		logger:  logger,
	}
	s.mcp = mcpserver.NewMCPServer("a11y-bridge", version.Version)
	s.registerTools()
	return s
}

// Session identifies this server instance in tool responses.
func (s *Server) Session() uuid.UUID { return s.session }

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport and blocks.
func (s *Server) Serve(cfg Config) error {
	s.logger.Info("serving", "transport", cfg.Transport, "port", cfg.Port, "session", s.session.String())
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// Close stops the bridge runner.
func (s *Server) Close() {
	s.runner.Stop()
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("open_window",
			mcp.WithDescription("Open a window and register its accessibility adapter and request queue"),
			mcp.WithString("name", mcp.Description("Window name, used to refer to it later"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Window title (default: name)")),
			mcp.WithBoolean("primary", mcp.Description("Mark as the primary window")),
		),
		s.handleOpenWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("close_window",
			mcp.WithDescription("Close a window. Its registrations are removed at the start of the next frame."),
			mcp.WithString("window", mcp.Description("Window name or id (e.g. 'w1')"), mcp.Required()),
		),
		s.handleCloseWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("request_action",
			mcp.WithDescription("Deliver an accessibility action request to a window, as an assistive technology would. It is emitted on the next frame."),
			mcp.WithString("window", mcp.Description("Window name or id"), mcp.Required()),
			mcp.WithString("action", mcp.Description("Action name (see the actions command)"), mcp.Required()),
			mcp.WithNumber("target", mcp.Description("Target node id")),
			mcp.WithString("value", mcp.Description("Value for set-value and replace-selected-text")),
		),
		s.handleRequestAction,
	)

	s.mcp.AddTool(
		mcp.NewTool("step",
			mcp.WithDescription("Run frames and return the action request events each one emitted"),
			mcp.WithNumber("frames", mcp.Description("Number of frames to run (default: 1)")),
		),
		s.handleStep,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List open windows, registry contents and gating flags"),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_flags",
			mcp.WithDescription("Set the accessibility gating flags. Omitted flags keep their value."),
			mcp.WithBoolean("accessibility_requested", mcp.Description("Whether an assistive technology requested accessibility")),
			mcp.WithBoolean("manage_updates", mcp.Description("Whether the bridge manages tree updates")),
		),
		s.handleSetFlags,
	)
}
