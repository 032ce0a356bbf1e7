// Package orchestration installs a sequence of catalog items through an
// external package manager, sequentially or with a bounded pool of workers,
// and aggregates the per-item outcomes into run statistics. It decouples the
// installation logic from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
