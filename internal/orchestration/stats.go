package orchestration

import (
	"time"

	"github.com/agbru/provision/internal/progress"
)

// RunStatistics counts jobs by terminal state. At the end of a run
// Installed+Skipped+Failed equals the number of items processed.
type RunStatistics struct {
	Installed uint
	Skipped   uint
	Failed    uint
}

// Total returns the number of jobs that reached a terminal state.
func (s RunStatistics) Total() uint {
	return s.Installed + s.Skipped + s.Failed
}

func (s *RunStatistics) record(state progress.State) {
	switch state {
	case progress.Succeeded:
		s.Installed++
	case progress.SkippedAlreadyInstalled:
		s.Skipped++
	case progress.Failed:
		s.Failed++
	}
}

// Report is the complete outcome of a run.
type Report struct {
	// Stats are the aggregate counters.
	Stats RunStatistics
	// Jobs holds one entry per requested item, in request order.
	Jobs []InstallJob
	// NotStarted counts items left Pending because the run was canceled.
	NotStarted int
	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration
}

// Failures returns the failed jobs in request order.
func (r *Report) Failures() []InstallJob {
	var failed []InstallJob
	for _, j := range r.Jobs {
		if j.State == progress.Failed {
			failed = append(failed, j)
		}
	}
	return failed
}

func (r *Report) countNotStarted() {
	r.NotStarted = 0
	for _, j := range r.Jobs {
		if j.State == progress.Pending {
			r.NotStarted++
		}
	}
}
