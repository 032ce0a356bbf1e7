package orchestration

import (
	"time"

	"github.com/agbru/provision/internal/format"
	"github.com/agbru/provision/internal/progress"
)

// ProgressAggregator turns the update stream into overall ratio and ETA.
// Both the CLI and the TUI reporters use it so the estimation logic lives
// in one place.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	total int
}

// NewProgressAggregator creates an aggregator for a run of total items.
// Returns nil if total <= 0.
func NewProgressAggregator(total int) *ProgressAggregator {
	if total <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(total), total: total}
}

// AggregatedProgress is the view of the run after one update.
type AggregatedProgress struct {
	// Update is the raw update that was applied.
	Update progress.Update
	// Ratio is the completed fraction of the run.
	Ratio float64
	// ETA is the estimated remaining time, zero while unknown.
	ETA time.Duration
}

// Update applies an update and returns the aggregated view.
func (a *ProgressAggregator) Update(update progress.Update) AggregatedProgress {
	ratio, eta := a.state.Update(update.Completed)
	return AggregatedProgress{Update: update, Ratio: ratio, ETA: eta}
}

// Ratio returns the current completed fraction without updating.
func (a *ProgressAggregator) Ratio() float64 {
	return a.state.Ratio()
}

// ETA returns the current estimate without updating.
func (a *ProgressAggregator) ETA() time.Duration {
	return a.state.ETA()
}

// Total returns the number of items being tracked.
func (a *ProgressAggregator) Total() int {
	return a.total
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.Update) {
	for range progressChan {
	}
}
