// Package app wires configuration, the catalog, the package manager client,
// the orchestrator and the presentation layers into the provision commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/agbru/provision/internal/config"
	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/ui"
)

// Installer is the package manager client the application drives.
type Installer interface {
	orchestration.Installer
	SuccessMarkers() []string
}

// InstallerFactory builds the Installer for a package manager profile.
type InstallerFactory func(m pkgmgr.Manager, force bool, logger logging.Logger) Installer

// CategoryPrompt asks the user to choose among the available categories.
type CategoryPrompt func(ctx context.Context, available []string) ([]string, error)

// Application represents one provision invocation.
type Application struct {
	Config config.AppConfig
	Out    io.Writer
	ErrOut io.Writer

	lookupEnv    config.LookupFunc
	newInstaller InstallerFactory
	prompt       CategoryPrompt
	isTerminal   func(io.Writer) bool

	logger logging.Logger
	theme  ui.Theme
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInstallerFactory replaces the package manager client.
func WithInstallerFactory(f InstallerFactory) AppOption {
	return func(a *Application) { a.newInstaller = f }
}

// WithEnv replaces the environment lookup used for PROVISION_ overrides.
func WithEnv(lookup config.LookupFunc) AppOption {
	return func(a *Application) { a.lookupEnv = lookup }
}

// WithCategoryPrompt replaces the interactive category form.
func WithCategoryPrompt(p CategoryPrompt) AppOption {
	return func(a *Application) { a.prompt = p }
}

// WithTerminalCheck replaces the check that decides between the spinner and
// the line reporter.
func WithTerminalCheck(f func(io.Writer) bool) AppOption {
	return func(a *Application) { a.isTerminal = f }
}

// New creates a new Application writing to out and errOut.
func New(out, errOut io.Writer, opts ...AppOption) *Application {
	a := &Application{
		Config:       config.Default(),
		Out:          out,
		ErrOut:       errOut,
		lookupEnv:    os.LookupEnv,
		newInstaller: defaultInstaller,
		prompt:       promptCategories,
		isTerminal:   isTerminal,
		logger:       logging.NopLogger{},
		theme:        ui.NoColorTheme(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the command line args and returns the process exit code.
func (a *Application) Execute(ctx context.Context, args []string) int {
	var code int
	root := NewRootCommand(a, &code)
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.ErrOut)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.ErrOut, "Error: %v\n", err)
		return exitCodeForCommandError(err)
	}
	return code
}

// exitCodeForCommandError maps errors that stop a command before any run to
// an exit code. Cobra's own argument and flag errors are configuration errors.
func exitCodeForCommandError(err error) int {
	var envErr apperrors.EnvironmentError
	if errors.As(err, &envErr) {
		return apperrors.ExitErrorEnvironment
	}
	if apperrors.IsContextError(err) {
		return apperrors.ExitCodeFor(err, 0)
	}
	return apperrors.ExitErrorConfig
}

// prepare applies dotenv and environment overrides, validates the result and
// builds the logger and theme.
func (a *Application) prepare(cmdFlags flagSource, args []string) error {
	if len(args) > 0 {
		a.Config.Categories = args
	}
	if err := config.LoadDotEnv(a.Config.EnvFile); err != nil {
		return err
	}
	if err := config.ApplyEnvOverrides(&a.Config, cmdFlags.Flags(), a.lookupEnv); err != nil {
		return err
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	theme, err := ui.Resolve(a.Config.Theme, a.Config.NoColor, a.lookupEnv)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	a.theme = theme
	a.logger = logging.New(logging.Options{
		Writer:    a.ErrOut,
		Level:     a.Config.EffectiveLogLevel(),
		Format:    a.Config.LogFormat,
		Component: "provision",
		NoColor:   !theme.Enabled(),
	})
	return nil
}

func defaultInstaller(m pkgmgr.Manager, force bool, logger logging.Logger) Installer {
	return pkgmgr.New(m, pkgmgr.WithForce(force), pkgmgr.WithLogger(logger))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
