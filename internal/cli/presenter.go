package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/agbru/provision/internal/config"
	"github.com/agbru/provision/internal/format"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct {
	Theme ui.Theme
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentSummary displays one row per item with its final state and
// duration, followed by the totals and the failure causes. Padding is
// computed on the visible text so color codes do not break alignment.
func (p CLIResultPresenter) PresentSummary(report *orchestration.Report, out io.Writer) {
	th := p.Theme
	fmt.Fprintf(out, "\n--- Installation Summary ---\n")

	nameW, idW, stateW := len("Item"), len("Identifier"), len("Status")
	for _, j := range report.Jobs {
		nameW = max(nameW, utf8.RuneCountInString(j.Item.DisplayName()))
		idW = max(idW, utf8.RuneCountInString(j.Item.ID))
		stateW = max(stateW, len(summaryState(j.State)))
	}

	fmt.Fprintf(out, "%s%s   %s%s   %s%s   %s\n",
		th.Paint(th.Underline, "Item"), padRight("", nameW-4),
		th.Paint(th.Underline, "Identifier"), padRight("", idW-10),
		th.Paint(th.Underline, "Status"), padRight("", stateW-6),
		th.Paint(th.Underline, "Duration"))

	for _, j := range report.Jobs {
		name := j.Item.DisplayName()
		state := summaryState(j.State)
		duration := "-"
		if d := j.Duration(); d > 0 {
			duration = format.FormatExecutionDuration(d)
		}
		fmt.Fprintf(out, "%s%s   %s%s   %s%s   %s\n",
			th.Paint(th.Primary, name), padRight("", nameW-utf8.RuneCountInString(name)),
			j.Item.ID, padRight("", idW-utf8.RuneCountInString(j.Item.ID)),
			th.Paint(stateColor(th, j.State), state), padRight("", stateW-len(state)),
			duration)
	}

	s := report.Stats
	fmt.Fprintf(out, "\nInstalled: %s  Skipped: %s  Failed: %s",
		th.Paint(th.Success, fmt.Sprint(s.Installed)),
		th.Paint(th.Secondary, fmt.Sprint(s.Skipped)),
		th.Paint(th.Error, fmt.Sprint(s.Failed)))
	if report.NotStarted > 0 {
		fmt.Fprintf(out, "  Not started: %s", th.Paint(th.Warning, fmt.Sprint(report.NotStarted)))
	}
	fmt.Fprintf(out, "  Elapsed: %s\n", format.FormatExecutionDuration(report.Elapsed))

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Fprintf(out, "\n%s\n", th.Paint(th.Error, "Failures:"))
		for _, j := range failures {
			fmt.Fprintf(out, "  - %s: %v\n", j.Item.DisplayName(), j.Err)
		}
	}
}

func summaryState(state progress.State) string {
	if state == progress.Pending {
		return "not started"
	}
	return stateLabel(state)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PrintExecutionConfig displays the configuration of the run about to start.
//
// Parameters:
//   - cfg: The application configuration.
//   - itemCount: The number of selected items.
//   - theme: The color theme.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, itemCount int, theme ui.Theme, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Installing %s items with %s.\n",
		theme.Paint(theme.Info, fmt.Sprint(itemCount)), theme.Paint(theme.Primary, cfg.Manager))
	fmt.Fprintf(out, "Environment: %s/%s, %s logical processors.\n",
		runtime.GOOS, runtime.GOARCH, theme.Paint(theme.Info, fmt.Sprint(runtime.NumCPU())))
	if cfg.Timeout > 0 || cfg.ItemTimeout > 0 {
		fmt.Fprintf(out, "Time limits: run %s, item %s.\n", limitText(cfg.Timeout), limitText(cfg.ItemTimeout))
	}
}

func limitText(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

// PrintExecutionMode displays how items will be dispatched.
//
// Parameters:
//   - cfg: The application configuration.
//   - theme: The color theme.
//   - out: The writer for standard output.
func PrintExecutionMode(cfg config.AppConfig, theme ui.Theme, out io.Writer) {
	var modeDesc string
	if cfg.IsParallel() {
		workers := "one worker per item"
		if cfg.Concurrency > 0 {
			workers = fmt.Sprintf("%d workers", cfg.Concurrency)
		}
		modeDesc = fmt.Sprintf("%s (%s)", theme.Paint(theme.Success, "parallel"), workers)
	} else {
		modeDesc = theme.Paint(theme.Success, "sequential")
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	if cfg.Force {
		fmt.Fprintf(out, "%s\n", theme.Paint(theme.Warning, "Reinstalling items that are already present."))
	}
	fmt.Fprintf(out, "\n--- Starting Installation ---\n")
}
