package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/a11y-bridge/internal/output"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"simulate", "serve", "actions"}
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := output.Writer
	output.Writer = &buf
	t.Cleanup(func() {
		output.Writer = old
		output.OutputFormat = output.FormatYAML
		output.PrettyOutput = false
		_ = rootCmd.PersistentFlags().Set("format", "yaml")
	})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestActionsCommand(t *testing.T) {
	out, err := execute(t, "actions")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"click", "focus", "set-value"} {
		if !strings.Contains(out, "- "+name) {
			t.Errorf("actions output missing %q:\n%s", name, out)
		}
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	src := `accessibility_requested: true
steps:
  - open: {window: main, primary: true}
  - request: {window: main, action: focus, target: 3}
  - frame: 1
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	png := filepath.Join(dir, "frames.png")

	out, err := execute(t, "simulate", path, "--format", "json", "--timeline", png)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"window":"w1"`) || !strings.Contains(out, `"action":"focus"`) {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, `"updated_nodes":true`) {
		t.Errorf("nodes should have updated: %s", out)
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Errorf("timeline not written: %v", err)
	}
}

func TestSimulateCommand_BadFormat(t *testing.T) {
	if _, err := execute(t, "actions", "--format", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
