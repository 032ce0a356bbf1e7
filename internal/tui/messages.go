package tui

import (
	"time"

	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/progress"
)

// ProgressMsg carries one job transition with the aggregated view.
type ProgressMsg struct {
	Update progress.Update
	Ratio  float64
	ETA    time.Duration
}

// ProgressDoneMsg signals that the progress stream was closed.
type ProgressDoneMsg struct{}

// RunCompleteMsg carries the outcome of the run.
type RunCompleteMsg struct {
	Report *orchestration.Report
	Err    error
}

// TickMsg refreshes the elapsed time.
type TickMsg time.Time
