package config

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/agbru/provision/internal/pkgmgr"
)

// BindInstallFlags registers the install flags on fs, writing into cfg.
// Flag names match the keys of the environment override table.
func BindInstallFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Dispatch mode: sequential or parallel")
	fs.BoolVarP(&cfg.Force, "force", "f", cfg.Force, "Reinstall items that are already present")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel workers (0 = one per item)")
	fs.DurationVar(&cfg.ItemTimeout, "item-timeout", cfg.ItemTimeout, "Time limit for a single install (0 = none)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time limit for the whole run (0 = none)")
	fs.BoolVarP(&cfg.Interactive, "interactive", "i", cfg.Interactive, "Choose categories interactively")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Show the full-screen progress dashboard")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Suppress progress and summary output")
	fs.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Write a plain-text report to this file")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file")
	BindCommonFlags(fs, cfg)
}

// BindCommonFlags registers the flags shared by every command that talks to
// the package manager.
func BindCommonFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.Manager, "manager", cfg.Manager, "Package manager: "+strings.Join(pkgmgr.Names(), ", "))
	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "YAML catalog replacing the built-in one")
}

// BindGlobalFlags registers presentation and logging flags.
func BindGlobalFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme: dark, light or none")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Dotenv file with PROVISION_ defaults")
}
