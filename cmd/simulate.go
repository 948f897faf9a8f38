package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/scenario"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Run a scenario and print the events each frame emitted",
	Long: `Run a YAML scenario against a fresh bridge. Steps open and close windows,
deliver action requests, change the gating flags and run frames.

  accessibility_requested: true
  steps:
    - open: {window: main, title: Main, primary: true}
    - request: {window: main, action: focus, target: 3}
    - frame: 1
    - close: {window: main}
    - frame: 1

Examples:
  a11y-bridge simulate demo.yaml
  a11y-bridge simulate demo.yaml --format json --pretty
  a11y-bridge simulate demo.yaml --timeline frames.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("timeline", "", "Write a PNG timeline of the run to this path")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	timeline, _ := cmd.Flags().GetString("timeline")

	sc, err := scenario.LoadFile(args[0])
	if err != nil {
		return err
	}

	b, err := bridge.New(bridgeOptions())
	if err != nil {
		return err
	}
	defer b.Shutdown()

	res, err := sc.Run(b)
	if err != nil {
		return err
	}
	logger.Info("scenario finished", "scenario", sc.Name, "frames", len(res.Frames), "events", len(res.Events()), "dropped", res.Dropped)

	if timeline != "" {
		if err := writeTimeline(timeline, res); err != nil {
			return err
		}
	}
	return output.Print(res)
}

func writeTimeline(path string, res *scenario.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timeline: %w", err)
	}
	tl := output.Timeline{Frames: res.Frames, Windows: res.Windows}
	if err := tl.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
