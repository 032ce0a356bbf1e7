package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/cli"
	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/metrics"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/tui"
)

// runInstall performs the install command and returns its exit code.
// Errors returned here stop the command before any item is dispatched.
func (a *Application) runInstall(ctx context.Context) (int, error) {
	cat, err := a.loadCatalog()
	if err != nil {
		return 0, err
	}
	if a.Config.Interactive {
		chosen, err := a.prompt(ctx, cat.Categories())
		if err != nil {
			return 0, err
		}
		a.Config.Categories = chosen
	}
	items, err := orchestration.SelectItems(cat, a.Config.Categories)
	if err != nil {
		return 0, err
	}

	manager, _ := pkgmgr.Lookup(a.Config.Manager)
	mode, _ := orchestration.ParseMode(a.Config.Mode)
	installer := a.newInstaller(manager, a.Config.Force, a.logger)
	recorder := metrics.NewRecorder(manager.Name)

	orch := orchestration.New(installer, orchestration.Options{
		Mode:           mode,
		ForceReinstall: a.Config.Force,
		Concurrency:    a.Config.Concurrency,
		ItemTimeout:    a.Config.ItemTimeout,
		SuccessMarkers: installer.SuccessMarkers(),
		Logger:         a.logger,
		Metrics:        recorder,
	})

	// Setup lifecycle (timeout + signals)
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	if a.Config.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, a.Config.Timeout)
		defer cancelTimeout()
	}

	a.logger.Info("starting installation",
		logging.String("manager", manager.Name),
		logging.String("mode", mode.String()),
		logging.Int("items", len(items)))

	var report *orchestration.Report
	var runErr error
	if a.Config.TUI {
		title := fmt.Sprintf("provision · %s · %s", manager.Name, mode)
		report, runErr = tui.Run(ctx, title, items, a.theme, a.Out,
			func(ctx context.Context, reporter orchestration.ProgressReporter, out io.Writer) (*orchestration.Report, error) {
				return orch.Run(ctx, items, reporter, out)
			})
	} else {
		if !a.Config.Quiet {
			cli.PrintExecutionConfig(a.Config, len(items), a.theme, a.Out)
			cli.PrintExecutionMode(a.Config, a.theme, a.Out)
		}
		report, runErr = orch.Run(ctx, items, a.progressReporter(), a.Out)
	}

	summaryOut := a.Out
	if a.Config.Quiet {
		summaryOut = io.Discard
	}
	code := orchestration.AnalyzeReport(report, runErr, cli.CLIResultPresenter{Theme: a.theme}, summaryOut)

	if err := a.writeArtifacts(report, recorder, manager.Name); err != nil {
		a.logger.Error("writing run artifacts", err)
		fmt.Fprintf(a.ErrOut, "Error: %v\n", err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code, nil
}

// progressReporter chooses how progress is shown outside the dashboard.
func (a *Application) progressReporter() orchestration.ProgressReporter {
	switch {
	case a.Config.Quiet:
		return orchestration.NullProgressReporter{}
	case a.isTerminal(a.Out):
		return cli.CLIProgressReporter{Theme: a.theme}
	default:
		return cli.LineProgressReporter{Theme: a.theme}
	}
}

// writeArtifacts writes the report and metrics files that were requested.
func (a *Application) writeArtifacts(report *orchestration.Report, recorder *metrics.Recorder, manager string) error {
	if report == nil {
		return nil
	}
	recorder.ObserveRun(report)

	if a.Config.ReportFile != "" {
		meta := cli.ReportMeta{Manager: manager, Mode: a.Config.Mode, Force: a.Config.Force}
		if err := cli.WriteReportToFile(report, a.Config.ReportFile, meta); err != nil {
			return apperrors.WrapError(err, "saving report")
		}
		if !a.Config.Quiet {
			fmt.Fprintf(a.Out, "%s %s\n",
				a.theme.Paint(a.theme.Success, "✓ Report saved to:"), a.theme.Paint(a.theme.Info, a.Config.ReportFile))
		}
	}
	if a.Config.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			return apperrors.WrapError(err, "saving metrics")
		}
	}
	return nil
}

// loadCatalog returns the catalog file when one is configured, otherwise the
// built-in catalog.
func (a *Application) loadCatalog() (*catalog.Catalog, error) {
	if a.Config.CatalogFile == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(a.Config.CatalogFile)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return cat, nil
}
