package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/format"
	"github.com/agbru/provision/internal/progress"
)

type jobRow struct {
	item    catalog.Item
	state   progress.State
	elapsed time.Duration
	err     error
}

// JobsModel is the scrollable list of items with their live state.
type JobsModel struct {
	rows   []jobRow
	offset int
	height int
	width  int
}

// NewJobsModel creates a list with every item pending.
func NewJobsModel(items []catalog.Item) JobsModel {
	rows := make([]jobRow, len(items))
	for i, it := range items {
		rows[i] = jobRow{item: it}
	}
	return JobsModel{rows: rows, height: len(rows)}
}

// Apply records a transition.
func (j *JobsModel) Apply(u progress.Update) {
	if u.Index < 0 || u.Index >= len(j.rows) {
		return
	}
	r := &j.rows[u.Index]
	r.state = u.State
	r.elapsed = u.Elapsed
	r.err = u.Err
}

// SetSize updates the visible area.
func (j *JobsModel) SetSize(width, height int) {
	j.width = width
	j.height = max(height, 1)
	j.clamp()
}

// Scroll moves the window by delta rows.
func (j *JobsModel) Scroll(delta int) {
	j.offset += delta
	j.clamp()
}

func (j *JobsModel) clamp() {
	maxOffset := max(len(j.rows)-j.height, 0)
	j.offset = min(max(j.offset, 0), maxOffset)
}

// Counts returns the number of rows per state.
func (j JobsModel) Counts() map[progress.State]int {
	counts := make(map[progress.State]int, 5)
	for _, r := range j.rows {
		counts[r.state]++
	}
	return counts
}

// View renders the visible rows. spin is the current spinner frame used for
// running rows.
func (j JobsModel) View(st styles, spin string) string {
	nameW := 0
	for _, r := range j.rows {
		nameW = max(nameW, lipgloss.Width(r.item.DisplayName()))
	}
	end := min(j.offset+j.height, len(j.rows))
	lines := make([]string, 0, end-j.offset)
	for _, r := range j.rows[j.offset:end] {
		icon := rowIcon(r.state)
		if r.state == progress.Running {
			icon = spin
		}
		name := r.item.DisplayName()
		line := fmt.Sprintf("%s %s%s  %s  %s",
			st.forState(r.state).Render(icon),
			st.itemName.Render(name), spaces(nameW-lipgloss.Width(name)),
			st.forState(r.state).Render(rowLabel(r.state)),
			st.itemID.Render(r.item.ID))
		if r.state.IsTerminal() && r.elapsed > 0 {
			line += st.dim.Render(" " + format.FormatExecutionDuration(r.elapsed))
		}
		if r.err != nil {
			line += " " + st.failed.Render(r.err.Error())
		}
		if j.width > 0 && lipgloss.Width(line) > j.width {
			line = truncate(line, j.width)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

func rowIcon(state progress.State) string {
	switch state {
	case progress.Succeeded:
		return "✓"
	case progress.Failed:
		return "✗"
	case progress.SkippedAlreadyInstalled:
		return "•"
	default:
		return "·"
	}
}

func rowLabel(state progress.State) string {
	switch state {
	case progress.Pending:
		return "waiting   "
	case progress.Running:
		return "installing"
	case progress.Succeeded:
		return "installed "
	case progress.Failed:
		return "failed    "
	default:
		return "present   "
	}
}
