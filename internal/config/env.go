// This file contains environment variable utilities for configuration override.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	apperrors "github.com/agbru/provision/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// LookupFunc reads one environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *pflag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
func isFlagSetAny(fs *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the PROVISION_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"CONCURRENCY", []string{"concurrency"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			c.Concurrency = parsed
		}
		return err
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		return setDuration(&c.Timeout, v)
	}},
	{"ITEM_TIMEOUT", []string{"item-timeout"}, func(c *AppConfig, v string) error {
		return setDuration(&c.ItemTimeout, v)
	}},

	// String overrides
	{"MODE", []string{"mode"}, func(c *AppConfig, v string) error {
		c.Mode = v
		return nil
	}},
	{"MANAGER", []string{"manager"}, func(c *AppConfig, v string) error {
		c.Manager = v
		return nil
	}},
	{"CATALOG", []string{"catalog"}, func(c *AppConfig, v string) error {
		c.CatalogFile = v
		return nil
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) error {
		c.Theme = v
		return nil
	}},
	{"REPORT", []string{"report"}, func(c *AppConfig, v string) error {
		c.ReportFile = v
		return nil
	}},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) error {
		c.MetricsFile = v
		return nil
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, v string) error {
		c.LogFormat = v
		return nil
	}},
	{"CATEGORIES", nil, func(c *AppConfig, v string) error {
		if len(c.Categories) == 0 {
			c.Categories = splitList(v)
		}
		return nil
	}},

	// Boolean overrides
	{"FORCE", []string{"force", "f"}, func(c *AppConfig, v string) error {
		return setBool(&c.Force, v)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) error {
		return setBool(&c.TUI, v)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) error {
		return setBool(&c.Quiet, v)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, v string) error {
		return setBool(&c.Verbose, v)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) error {
		return setBool(&c.NoColor, v)
	}},
}

func setDuration(dst *time.Duration, v string) error {
	parsed, err := time.ParseDuration(v)
	if err == nil {
		*dst = parsed
	}
	return err
}

func setBool(dst *bool, v string) error {
	parsed, ok := parseBoolEnv(v)
	if !ok {
		return fmt.Errorf("invalid boolean %q", v)
	}
	*dst = parsed
	return nil
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func parseBoolEnv(val string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with PROVISION_):
//   - MODE, FORCE, CONCURRENCY, ITEM_TIMEOUT, TIMEOUT, MANAGER, CATALOG,
//     CATEGORIES, TUI, QUIET, VERBOSE, NO_COLOR, THEME, REPORT,
//     METRICS_FILE, LOG_LEVEL, LOG_FORMAT
//
// Returns:
//   - error: A ConfigError listing every value that could not be parsed.
func ApplyEnvOverrides(cfg *AppConfig, fs *pflag.FlagSet, lookup LookupFunc) error {
	var errs []error
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val, ok := lookup(EnvPrefix + o.envKey)
		if !ok || val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, o.envKey, err))
		}
	}
	if len(errs) > 0 {
		return apperrors.NewConfigError("invalid environment: %v", errors.Join(errs...))
	}
	return nil
}

// LoadDotEnv loads variables from a dotenv file into the process
// environment. Variables already set in the environment are left untouched.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.NewConfigError("loading %s: %v", path, err)
	}
	return nil
}
