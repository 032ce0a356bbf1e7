package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/provision/internal/format"
)

// HeaderModel renders the top bar: title, manager, elapsed time and status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	title     string
	status    string
	system    string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(title string) HeaderModel {
	return HeaderModel{startTime: time.Now(), title: title, status: "installing"}
}

// SetDone freezes the elapsed timer and sets the final status.
func (h *HeaderModel) SetDone(status string) {
	h.endTime = time.Now()
	h.status = status
}

// SetStatus updates the status text.
func (h *HeaderModel) SetStatus(status string) {
	h.status = status
}

// SetSystem sets the host load text shown next to the elapsed time.
func (h *HeaderModel) SetSystem(text string) {
	h.system = text
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View(st styles) string {
	pipe := st.dim.Render(" | ")
	elapsed := st.elapsed.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed().Round(time.Second))))
	left := st.title.Render(h.title) + pipe + elapsed
	if h.system != "" {
		left += pipe + st.dim.Render(h.system)
	}
	right := st.status.Render(h.status)

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	return st.header.Width(h.width).Render(left + spaces(gap) + right)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
