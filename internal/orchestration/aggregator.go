package orchestration

import (
	"time"

	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/progress"
)

// event is one job transition reported by the dispatcher or a worker.
type event struct {
	index  int
	state  progress.State
	at     time.Time
	result pkgmgr.Result
	err    error
}

// aggregator is the single owner of the job table, the statistics and the
// running set. apply must only ever be called from one goroutine.
type aggregator struct {
	jobs      []InstallJob
	stats     RunStatistics
	running   []int
	completed int
	updates   chan<- progress.Update
	metrics   Metrics
	logger    logging.Logger
}

func newAggregator(jobs []InstallJob, updates chan<- progress.Update, metrics Metrics, logger logging.Logger) *aggregator {
	return &aggregator{jobs: jobs, updates: updates, metrics: metrics, logger: logger}
}

func (a *aggregator) apply(ev event) {
	job := &a.jobs[ev.index]
	var err error
	switch ev.state {
	case progress.Running:
		err = job.start(ev.at)
	case progress.SkippedAlreadyInstalled:
		err = job.skip(ev.at)
	default:
		err = job.finish(ev.state, ev.at, ev.result, ev.err)
	}
	if err != nil {
		a.logger.Error("rejected job transition", err, logging.String("item", job.Item.ID))
		return
	}

	if ev.state == progress.Running {
		a.running = append(a.running, ev.index)
		a.metrics.JobStarted(job.Item)
	} else {
		a.removeRunning(ev.index)
		a.stats.record(ev.state)
		a.completed++
		a.metrics.JobFinished(*job)
	}
	a.notify(job)
}

func (a *aggregator) removeRunning(index int) {
	for i, r := range a.running {
		if r == index {
			a.running = append(a.running[:i], a.running[i+1:]...)
			return
		}
	}
}

// notify publishes the job's new state. The channel is sized for every
// transition of the run, so the send never blocks.
func (a *aggregator) notify(job *InstallJob) {
	if a.updates == nil {
		return
	}
	running := make([]string, len(a.running))
	for i, idx := range a.running {
		running[i] = a.jobs[idx].Item.DisplayName()
	}
	a.updates <- progress.Update{
		Index:     job.Index,
		ID:        job.Item.ID,
		Name:      job.Item.DisplayName(),
		State:     job.State,
		Completed: a.completed,
		Total:     len(a.jobs),
		Running:   running,
		Elapsed:   job.Duration(),
		Err:       job.Err,
	}
}
