package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

// styles holds every lipgloss style of the dashboard. It is built from the
// theme passed to Run, so two dashboards with different themes never share
// state.
type styles struct {
	theme ui.TUITheme

	panel     lipgloss.Style
	header    lipgloss.Style
	title     lipgloss.Style
	dim       lipgloss.Style
	elapsed   lipgloss.Style
	itemName  lipgloss.Style
	itemID    lipgloss.Style
	running   lipgloss.Style
	succeeded lipgloss.Style
	failed    lipgloss.Style
	skipped   lipgloss.Style
	pending   lipgloss.Style
	status    lipgloss.Style
	warning   lipgloss.Style
}

func newStyles(t ui.TUITheme) styles {
	return styles{
		theme: t,
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.Text),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			Padding(0, 1),
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		dim:       lipgloss.NewStyle().Foreground(t.Dim),
		elapsed:   lipgloss.NewStyle().Foreground(t.Accent),
		itemName:  lipgloss.NewStyle().Foreground(t.Text),
		itemID:    lipgloss.NewStyle().Foreground(t.Dim),
		running:   lipgloss.NewStyle().Foreground(t.Info).Bold(true),
		succeeded: lipgloss.NewStyle().Foreground(t.Success),
		failed:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		skipped:   lipgloss.NewStyle().Foreground(t.Dim),
		pending:   lipgloss.NewStyle().Foreground(t.Dim),
		status:    lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		warning:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}

// forState returns the style of a job row.
func (s styles) forState(state progress.State) lipgloss.Style {
	switch state {
	case progress.Running:
		return s.running
	case progress.Succeeded:
		return s.succeeded
	case progress.Failed:
		return s.failed
	case progress.SkippedAlreadyInstalled:
		return s.skipped
	default:
		return s.pending
	}
}
