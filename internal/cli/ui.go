package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/provision/internal/format"
	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 24
	// maxRunningShown caps how many in-flight names the spinner lists.
	maxRunningShown = 3
)

// Spinner abstracts the terminal spinner so reporters can be tested without
// a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation and clears its line.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix sets the suffix under the spinner's lock, since the spinner
// redraws from its own goroutine.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// stateIcon returns the glyph shown in front of a job line.
func stateIcon(state progress.State) string {
	switch state {
	case progress.Running:
		return "▶"
	case progress.Succeeded:
		return "✅"
	case progress.Failed:
		return "❌"
	case progress.SkippedAlreadyInstalled:
		return "⏭"
	default:
		return "·"
	}
}

// stateColor picks the theme color for a state.
func stateColor(theme ui.Theme, state progress.State) string {
	switch state {
	case progress.Succeeded:
		return theme.Success
	case progress.Failed:
		return theme.Error
	case progress.SkippedAlreadyInstalled:
		return theme.Secondary
	case progress.Running:
		return theme.Info
	default:
		return ""
	}
}

// stateLabel is the human wording of a state.
func stateLabel(state progress.State) string {
	switch state {
	case progress.Running:
		return "installing"
	case progress.Succeeded:
		return "installed"
	case progress.SkippedAlreadyInstalled:
		return "already installed"
	default:
		return state.String()
	}
}

// FormatUpdateLine renders one transition as a single line, without the
// trailing newline.
func FormatUpdateLine(theme ui.Theme, u progress.Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] %s %s", u.Completed, u.Total, stateIcon(u.State),
		theme.Paint(theme.Bold, u.Name))
	if u.ID != "" && u.ID != u.Name {
		fmt.Fprintf(&b, " (%s)", u.ID)
	}
	fmt.Fprintf(&b, " %s", theme.Paint(stateColor(theme, u.State), stateLabel(u.State)))
	if u.State.IsTerminal() && u.Elapsed > 0 {
		fmt.Fprintf(&b, " in %s", format.FormatExecutionDuration(u.Elapsed))
	}
	if u.Err != nil {
		fmt.Fprintf(&b, ": %v", u.Err)
	}
	return b.String()
}

// FormatSpinnerSuffix renders the live status shown after the spinner:
// bar, counts, ETA and the names currently installing.
func FormatSpinnerSuffix(ratio float64, completed, total int, eta time.Duration, running []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, " [%s] %d/%d ETA: %s", format.ProgressBar(ratio, ProgressBarWidth), completed, total, format.FormatETA(eta))
	if len(running) > 0 {
		shown := running
		if len(shown) > maxRunningShown {
			shown = shown[:maxRunningShown]
		}
		fmt.Fprintf(&b, " · installing: %s", strings.Join(shown, ", "))
		if extra := len(running) - len(shown); extra > 0 {
			fmt.Fprintf(&b, " +%d", extra)
		}
	}
	return b.String()
}
