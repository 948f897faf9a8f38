// Package config loads bridge settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// A11Y_BRIDGE_LOG_LEVEL.
const EnvPrefix = "A11Y_BRIDGE"

// Keys shared by flags, environment variables and config files.
const (
	KeyAccessibilityRequested = "accessibility-requested"
	KeyManageUpdates          = "manage-updates"
	KeyWorkers                = "workers"
	KeyLogLevel               = "log-level"
	KeyLogFormat              = "log-format"
	KeyConfig                 = "config"
)

// Config is the resolved configuration.
type Config struct {
	AccessibilityRequested bool
	ManageUpdates          bool
	Workers                int
	LogLevel               string
	LogFormat              string
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. Cobra flags are bound on top by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAccessibilityRequested, false)
	v.SetDefault(KeyManageUpdates, true)
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads the config file named by the "config" key or, when unset,
// a11y-bridge.{yaml,json,toml} from the working directory or
// $HOME/.a11y-bridge. A missing default file is not an error.
func ReadFile(v *viper.Viper) error {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("a11y-bridge")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.a11y-bridge")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AccessibilityRequested: v.GetBool(KeyAccessibilityRequested),
		ManageUpdates:          v.GetBool(KeyManageUpdates),
		Workers:                v.GetInt(KeyWorkers),
		LogLevel:               strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:              strings.ToLower(v.GetString(KeyLogFormat)),
	}
	if cfg.Workers < 1 {
		return cfg, fmt.Errorf("invalid %s %d: must be at least 1", KeyWorkers, cfg.Workers)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("invalid %s %q (use text or json)", KeyLogFormat, cfg.LogFormat)
	}
	return cfg, nil
}
