// Package config defines the run configuration, its defaults and its
// validation, and layers command-line flags over environment variables.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/ui"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "PROVISION_"

// Default values.
const (
	DefaultMode        = "sequential"
	DefaultConcurrency = 4
	DefaultItemTimeout = 30 * time.Minute
	DefaultTimeout     = 2 * time.Hour
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
	DefaultTheme       = "dark"
	DefaultEnvFile     = ".env"
)

// AppConfig is the complete configuration of one invocation.
type AppConfig struct {
	// Categories selects catalog categories; empty selects everything.
	Categories []string
	// Mode is "sequential" or "parallel".
	Mode string
	// Force reinstalls items that are already present.
	Force bool
	// Concurrency bounds parallel installs; 0 means one worker per item.
	Concurrency int
	// ItemTimeout bounds a single install; 0 disables it.
	ItemTimeout time.Duration
	// Timeout bounds the whole run; 0 disables it.
	Timeout time.Duration
	// Manager names the package manager profile.
	Manager string
	// CatalogFile replaces the built-in catalog with a YAML file.
	CatalogFile string
	// Interactive asks for categories with a form.
	Interactive bool
	// TUI shows the full-screen dashboard.
	TUI bool
	// Quiet suppresses progress and the summary table.
	Quiet bool
	// Verbose lowers the log level to debug.
	Verbose bool
	// NoColor disables colors.
	NoColor bool
	// Theme names the color theme.
	Theme string
	// ReportFile receives a plain-text report when set.
	ReportFile string
	// MetricsFile receives Prometheus text-format metrics when set.
	MetricsFile string
	// LogLevel is a zerolog level name.
	LogLevel string
	// LogFormat is "console" or "json".
	LogFormat string
	// EnvFile is the dotenv file loaded before environment overrides.
	EnvFile string
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Mode:        DefaultMode,
		Concurrency: DefaultConcurrency,
		ItemTimeout: DefaultItemTimeout,
		Timeout:     DefaultTimeout,
		Manager:     DefaultManager(runtime.GOOS),
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Theme:       DefaultTheme,
		EnvFile:     DefaultEnvFile,
	}
}

// DefaultManager returns the package manager native to goos.
func DefaultManager(goos string) string {
	switch goos {
	case "windows":
		return "winget"
	case "darwin":
		return "brew"
	default:
		return "apt"
	}
}

// Validate checks the configuration for invalid values.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "sequential", "parallel":
	default:
		return apperrors.NewConfigError("invalid mode %q: expected sequential or parallel", c.Mode)
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.ItemTimeout < 0 {
		return apperrors.NewConfigError("item timeout must be >= 0, got %s", c.ItemTimeout)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must be >= 0, got %s", c.Timeout)
	}
	if _, ok := pkgmgr.Lookup(c.Manager); !ok {
		return apperrors.NewConfigError("unknown package manager %q (available: %s)",
			c.Manager, strings.Join(pkgmgr.Names(), ", "))
	}
	if _, err := ui.Resolve(c.Theme, true, nil); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return apperrors.NewConfigError("invalid log format %q: expected console or json", c.LogFormat)
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet cannot be combined")
	}
	return nil
}

// IsParallel reports whether the parallel mode is selected.
func (c AppConfig) IsParallel() bool {
	return strings.EqualFold(c.Mode, "parallel")
}

// EffectiveLogLevel returns the log level after --verbose is applied.
func (c AppConfig) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}
