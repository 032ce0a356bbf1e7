// Package progress holds the types shared between the orchestration layer and
// the presenters that render its live progress stream.
package progress

import "time"

// State is the lifecycle state of one install job.
type State int

const (
	// Pending jobs have not been dispatched yet.
	Pending State = iota
	// Running jobs are inside an install call.
	Running
	// Succeeded jobs were installed.
	Succeeded
	// Failed jobs returned a non-success outcome.
	Failed
	// SkippedAlreadyInstalled jobs were present before the run and never dispatched.
	SkippedAlreadyInstalled
)

var stateNames = [...]string{
	Pending:                 "pending",
	Running:                 "running",
	Succeeded:               "succeeded",
	Failed:                  "failed",
	SkippedAlreadyInstalled: "skipped",
}

// String returns the lower-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition can occur from s.
func (s State) IsTerminal() bool {
	return s == Succeeded || s == Failed || s == SkippedAlreadyInstalled
}

// Update is one notification on the progress stream. One update is emitted
// per job state transition.
type Update struct {
	// Index is the position of the item in the requested sequence.
	Index int
	// ID is the package manager identifier of the item.
	ID string
	// Name is the display name of the item.
	Name string
	// State is the state the job just entered.
	State State
	// Completed is the number of jobs in a terminal state, this one included.
	Completed int
	// Total is the number of items in the run.
	Total int
	// Running lists the display names of jobs currently installing, in
	// dispatch order. It is a snapshot owned by the receiver.
	Running []string
	// Elapsed is the time spent in the install call; zero unless State is terminal.
	Elapsed time.Duration
	// Err carries the failure cause for Failed updates.
	Err error
}

// Ratio returns Completed/Total in [0, 1]. An empty run counts as complete.
func (u Update) Ratio() float64 {
	if u.Total <= 0 {
		return 1
	}
	return float64(u.Completed) / float64(u.Total)
}
