package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/config"
	"github.com/mj1618/a11y-bridge/internal/logging"
	"github.com/mj1618/a11y-bridge/internal/output"
	_ "github.com/mj1618/a11y-bridge/internal/platform/headless"
	"github.com/mj1618/a11y-bridge/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgViper  = config.New()
	appConfig config.Config
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "a11y-bridge",
	Short: "Drive per-window accessibility adapters and action request queues",
	Long: `a11y-bridge keeps an accessibility adapter and an action request queue for
every open window, and drains queued requests into engine events once per frame.

Run scripted scenarios with simulate, or expose the bridge to agents with serve.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	flags := rootCmd.PersistentFlags()
	flags.String("format", "yaml", "Output format: yaml, json")
	flags.Bool("pretty", false, "Indent JSON output")
	flags.String(config.KeyLogLevel, "warn", "Log level: debug, info, warn, error")
	flags.String(config.KeyLogFormat, "text", "Log format: text, json")
	flags.String(config.KeyConfig, "", "Config file (default ./a11y-bridge.yaml)")
	flags.Bool(config.KeyAccessibilityRequested, false, "Start as if an assistive technology requested accessibility")
	flags.Bool(config.KeyManageUpdates, true, "Let the bridge manage accessibility tree updates")
	flags.Int(config.KeyWorkers, 1, "Worker goroutines for parallel systems")

	for _, key := range []string{
		config.KeyLogLevel, config.KeyLogFormat, config.KeyConfig,
		config.KeyAccessibilityRequested, config.KeyManageUpdates, config.KeyWorkers,
	} {
		_ = cfgViper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgViper)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

		// Use the root persistent flag directly so subcommand flags cannot shadow it.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

func loadConfig(v *viper.Viper) (config.Config, error) {
	if err := config.ReadFile(v); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

// bridgeOptions builds bridge options from the loaded configuration.
func bridgeOptions() bridge.Options {
	return bridge.Options{
		Workers:                appConfig.Workers,
		AccessibilityRequested: appConfig.AccessibilityRequested,
		ManageUpdates:          appConfig.ManageUpdates,
		Logger:                 logger,
	}
}
