package orchestration

import (
	"fmt"
	"time"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/progress"
)

// InstallJob is one installation attempt. It moves Pending → Running →
// (Succeeded | Failed), or Pending → SkippedAlreadyInstalled, exactly once.
type InstallJob struct {
	// Index is the item's position in the requested sequence.
	Index int
	// Item is the catalog entry being installed.
	Item catalog.Item
	// State is the current lifecycle state.
	State progress.State
	// StartedAt is set when the job enters Running.
	StartedAt time.Time
	// FinishedAt is set when the job reaches a terminal state.
	FinishedAt time.Time
	// Result is the raw outcome of the install call.
	Result pkgmgr.Result
	// Err is the failure cause of a Failed job.
	Err error
}

// Duration returns the time spent in the install call, or zero for jobs that
// never ran.
func (j InstallJob) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

func (j *InstallJob) invalid(to progress.State) error {
	return fmt.Errorf("job %q: invalid transition %s -> %s", j.Item.ID, j.State, to)
}

func (j *InstallJob) start(at time.Time) error {
	if j.State != progress.Pending {
		return j.invalid(progress.Running)
	}
	j.State = progress.Running
	j.StartedAt = at
	return nil
}

func (j *InstallJob) skip(at time.Time) error {
	if j.State != progress.Pending {
		return j.invalid(progress.SkippedAlreadyInstalled)
	}
	j.State = progress.SkippedAlreadyInstalled
	j.FinishedAt = at
	return nil
}

func (j *InstallJob) finish(state progress.State, at time.Time, res pkgmgr.Result, err error) error {
	if j.State != progress.Running || (state != progress.Succeeded && state != progress.Failed) {
		return j.invalid(state)
	}
	j.State = state
	j.FinishedAt = at
	j.Result = res
	j.Err = err
	return nil
}
