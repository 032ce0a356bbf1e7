package orchestration

import (
	"io"
	"sync"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/progress"
)

// ProgressReporter defines the interface for displaying installation
// progress. It decouples the orchestration layer from the presentation
// layer: implementations render spinners, dashboards or plain lines while
// the orchestrator focuses on driving the package manager.
type ProgressReporter interface {
	// DisplayProgress consumes updates until the channel is closed, then
	// calls wg.Done. It runs in its own goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving one update per job transition.
	//   - total: The number of items in the run.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, total int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.Update, total int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, total int, out io.Writer) {
	f(wg, progressChan, total, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders the outcome of a run.
type ResultPresenter interface {
	// PresentSummary writes the per-item table and the totals.
	PresentSummary(report *Report, out io.Writer)
}

// Metrics receives job lifecycle events. Calls for one run are made from a
// single goroutine, after the transition has been recorded.
type Metrics interface {
	JobStarted(item catalog.Item)
	JobFinished(job InstallJob)
}

type noopMetrics struct{}

func (noopMetrics) JobStarted(catalog.Item) {}
func (noopMetrics) JobFinished(InstallJob)  {}
