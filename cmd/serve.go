package cmd

import (
	"fmt"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the bridge as tools",
	Long: `Start a Model Context Protocol (MCP) server that owns a bridge on its own
window thread. Agents open and close windows, deliver action requests and step
frames through tools.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  a11y-bridge serve
  a11y-bridge serve --transport streamable-http --port 8080
  a11y-bridge serve --accessibility-requested --workers 4`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cfg := server.Config{Transport: transport, Port: port}
	if cfg.Transport != "stdio" && cfg.Transport != "streamable-http" {
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}

	runner, err := bridge.NewRunner(bridgeOptions())
	if err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}
	srv := server.New(runner, logger)
	defer srv.Close()

	return srv.Serve(cfg)
}
