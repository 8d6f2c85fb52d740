// Package config handles process-level bootstrap configuration (env vars,
// with sensible defaults) and the on-disk global configuration file
// (github/cloudflare/daemon/proxy sections, see global.go).
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// BootstrapConfig holds the handful of knobs needed before the on-disk
// global config file can even be located: where the config file and data
// directory live, and how to format the logger that everything else is
// constructed with.
type BootstrapConfig struct {
	Paths     Paths
	LogFormat string // "text" | "json"
}

// NewLogger builds a *slog.Logger whose handler depends on LogFormat.
// "text" produces human-readable output for local development; any other
// value produces structured JSON output for production and log shipping.
func (config *BootstrapConfig) NewLogger() *slog.Logger {
	var handler slog.Handler

	options := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(groups []string, attribute slog.Attr) slog.Attr {
			if attribute.Key == slog.SourceKey {
				source := attribute.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attribute
		},
	}

	if config.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, options)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, options)
	}

	return slog.New(handler)
}

// LoadBootstrapConfig reads the process-level knobs from the environment,
// falling back to defaults rooted at /etc/dockyard and /var/lib/dockyard,
// matching the reference implementation's fixed paths.
func LoadBootstrapConfig() *BootstrapConfig {
	return &BootstrapConfig{
		Paths: Paths{
			ConfigDir: getEnv("DOCKYARD_CONFIG_DIR", "/etc/dockyard"),
			DataDir:   getEnv("DOCKYARD_DATA_DIR", "/var/lib/dockyard"),
		},
		LogFormat: getEnv("DOCKYARD_LOG_FORMAT", "text"),
	}
}

// getEnv retrieves the value of an environment variable by key, falling
// back to fallbackValue when unset or empty. Avoids scattered os.Getenv
// calls with inline fallback logic throughout the codebase.
func getEnv(key, fallbackValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallbackValue
}
