package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/provision/internal/catalog"
	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel relative to the number
// of items. Each job emits at most two updates (Running and a terminal
// state, or a single skip).
const ProgressBufferMultiplier = 2

// Mode selects how items are dispatched.
type Mode int

const (
	// Sequential installs one item at a time, in catalog order.
	Sequential Mode = iota
	// Parallel installs items concurrently on a bounded pool of workers.
	Parallel
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential", "seq":
		return Sequential, nil
	case "parallel", "par":
		return Parallel, nil
	}
	return Sequential, apperrors.NewConfigError("unknown mode %q (expected sequential or parallel)", s)
}

// Options configures an Orchestrator.
type Options struct {
	// Mode selects sequential or parallel dispatch.
	Mode Mode
	// ForceReinstall disables the existence check so every item is installed.
	ForceReinstall bool
	// Concurrency bounds the parallel worker pool. Zero runs one worker per item.
	Concurrency int
	// ItemTimeout bounds each install call. Zero disables the bound.
	ItemTimeout time.Duration
	// SuccessMarkers are output fragments that mark an install as successful
	// even when the exit code is not zero.
	SuccessMarkers []string
	// Logger receives diagnostics. Nil discards them.
	Logger logging.Logger
	// Metrics receives job lifecycle events. Nil discards them.
	Metrics Metrics
	// Tracer creates spans for the run and each install. Nil uses the global
	// tracer provider.
	Tracer trace.Tracer
}

// Orchestrator drives an Installer over a list of catalog items.
type Orchestrator struct {
	installer Installer
	opts      Options
	logger    logging.Logger
	metrics   Metrics
	tracer    trace.Tracer
}

// New creates an Orchestrator.
func New(installer Installer, opts Options) *Orchestrator {
	o := &Orchestrator{installer: installer, opts: opts, logger: opts.Logger, metrics: opts.Metrics, tracer: opts.Tracer}
	if o.logger == nil {
		o.logger = logging.NopLogger{}
	}
	if o.metrics == nil {
		o.metrics = noopMetrics{}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("github.com/agbru/provision/internal/orchestration")
	}
	return o
}

// Run installs items and returns the report of the run.
//
// Item failures are recorded in the report, never returned. The returned
// error is an apperrors.EnvironmentError when the package manager is
// unusable (nothing is dispatched), or the context error when ctx was
// canceled. On cancellation no new item is started, installs already in
// flight run to completion, and the items never started stay Pending and are
// counted in Report.NotStarted.
//
// Parameters:
//   - ctx: Cancels dispatching of further items.
//   - items: The items to install, in catalog order.
//   - reporter: Receives one update per job transition. Nil discards them.
//   - out: The writer passed to the reporter.
func (o *Orchestrator) Run(ctx context.Context, items []catalog.Item, reporter ProgressReporter, out io.Writer) (*Report, error) {
	start := time.Now()
	report := &Report{Jobs: make([]InstallJob, len(items))}
	for i, item := range items {
		report.Jobs[i] = InstallJob{Index: i, Item: item, State: progress.Pending}
	}
	if len(items) == 0 {
		return report, nil
	}

	ctx, span := o.tracer.Start(ctx, "orchestration.Run", trace.WithAttributes(
		attribute.String("mode", o.opts.Mode.String()),
		attribute.Int("items", len(items)),
		attribute.Bool("force", o.opts.ForceReinstall),
	))
	defer span.End()

	if err := o.installer.Available(ctx); err != nil {
		var envErr apperrors.EnvironmentError
		if !errors.As(err, &envErr) {
			err = apperrors.EnvironmentError{Cause: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "package manager unavailable")
		o.logger.Error("package manager unavailable", err)
		return report, err
	}

	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	updates := make(chan progress.Update, len(items)*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, updates, len(items), out)

	agg := newAggregator(report.Jobs, updates, o.metrics, o.logger)
	o.logger.Info("run started",
		logging.String("mode", o.opts.Mode.String()),
		logging.Int("items", len(items)),
		logging.Bool("force", o.opts.ForceReinstall))

	if o.opts.Mode == Parallel {
		o.runParallel(ctx, items, agg)
	} else {
		o.runSequential(ctx, items, agg)
	}

	close(updates)
	displayWg.Wait()

	report.Stats = agg.stats
	report.countNotStarted()
	report.Elapsed = time.Since(start)

	span.SetAttributes(
		attribute.Int64("installed", int64(report.Stats.Installed)),
		attribute.Int64("skipped", int64(report.Stats.Skipped)),
		attribute.Int64("failed", int64(report.Stats.Failed)),
	)
	fields := []logging.Field{
		logging.Uint64("installed", uint64(report.Stats.Installed)),
		logging.Uint64("skipped", uint64(report.Stats.Skipped)),
		logging.Uint64("failed", uint64(report.Stats.Failed)),
		logging.Int("not_started", report.NotStarted),
		logging.Duration("elapsed", report.Elapsed),
	}
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "canceled")
		o.logger.Warn("run interrupted", append(fields, logging.Err(err))...)
		return report, err
	}
	o.logger.Info("run finished", fields...)
	return report, nil
}

func (o *Orchestrator) runSequential(ctx context.Context, items []catalog.Item, agg *aggregator) {
	for i, item := range items {
		if ctx.Err() != nil {
			return
		}
		if o.alreadyInstalled(ctx, item) {
			agg.apply(event{index: i, state: progress.SkippedAlreadyInstalled, at: time.Now()})
			continue
		}
		// A presence check cut short by cancellation must not lead to an install.
		if ctx.Err() != nil {
			return
		}
		agg.apply(event{index: i, state: progress.Running, at: time.Now()})
		agg.apply(o.install(ctx, i, item))
	}
}

// runParallel probes every item in order, then dispatches the ones that
// need installing onto the worker pool. Workers only send events; the
// aggregating goroutine applies them.
func (o *Orchestrator) runParallel(ctx context.Context, items []catalog.Item, agg *aggregator) {
	events := make(chan event, len(items)*ProgressBufferMultiplier)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		for ev := range events {
			agg.apply(ev)
		}
	}()

	pending := make([]int, 0, len(items))
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		if o.alreadyInstalled(ctx, item) {
			events <- event{index: i, state: progress.SkippedAlreadyInstalled, at: time.Now()}
			continue
		}
		pending = append(pending, i)
	}

	var g errgroup.Group
	if o.opts.Concurrency > 0 {
		g.SetLimit(o.opts.Concurrency)
	}
	for _, i := range pending {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			events <- event{index: i, state: progress.Running, at: time.Now()}
			events <- o.install(ctx, i, items[i])
			return nil
		})
	}
	_ = g.Wait()
	close(events)
	<-aggDone
}

// alreadyInstalled runs the existence check. Probe failures are logged and
// the item is treated as absent.
func (o *Orchestrator) alreadyInstalled(ctx context.Context, item catalog.Item) bool {
	if o.opts.ForceReinstall {
		return false
	}
	presence, err := o.installer.Probe(ctx, item.ID)
	if err == nil && presence == pkgmgr.Unknown {
		err = errors.New("package manager gave no answer")
	}
	if err != nil {
		o.logger.Warn("existence check failed, assuming not installed",
			logging.Err(apperrors.ExistenceCheckFailure{ItemID: item.ID, Cause: err}),
			logging.String("item", item.ID))
		return false
	}
	if presence == pkgmgr.Present {
		o.logger.Info("already installed", logging.String("item", item.ID))
		return true
	}
	return false
}

// install performs one install call and classifies its outcome into a
// terminal event. The call runs detached from ctx cancellation so an
// interrupted run drains in-flight installs; ItemTimeout still applies.
func (o *Orchestrator) install(ctx context.Context, index int, item catalog.Item) event {
	ictx := context.WithoutCancel(ctx)
	if o.opts.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ictx, cancel = context.WithTimeout(ictx, o.opts.ItemTimeout)
		defer cancel()
	}
	ictx, span := o.tracer.Start(ictx, "install", trace.WithAttributes(
		attribute.String("item.id", item.ID),
		attribute.String("item.name", item.DisplayName()),
	))
	defer span.End()

	res, err := o.callInstaller(ictx, item.ID)
	if err != nil && errors.Is(ictx.Err(), context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: "install " + item.ID, Limit: o.opts.ItemTimeout}
	}
	state, cause := o.classify(item, res, err)
	if state == progress.Failed {
		span.RecordError(cause)
		span.SetStatus(codes.Error, "install failed")
		o.logger.Error("install failed", cause, logging.String("item", item.ID), logging.Int("exit_code", res.ExitCode))
	} else {
		o.logger.Info("installed", logging.String("item", item.ID))
	}
	span.SetAttributes(attribute.Int("exit_code", res.ExitCode))
	return event{index: index, state: state, at: time.Now(), result: res, err: cause}
}

// callInstaller shields the run from a panicking Installer.
func (o *Orchestrator) callInstaller(ctx context.Context, id string) (res pkgmgr.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = pkgmgr.Result{ExitCode: -1}
			err = fmt.Errorf("installer panicked: %v", r)
		}
	}()
	return o.installer.Install(ctx, id)
}

// classify maps an install outcome to Succeeded or Failed. Exit code zero is
// authoritative. A non-zero exit whose output contains a success marker is
// accepted as a fallback.
func (o *Orchestrator) classify(item catalog.Item, res pkgmgr.Result, err error) (progress.State, error) {
	if err != nil {
		return progress.Failed, apperrors.ItemInstallFailure{ItemID: item.ID, ExitCode: res.ExitCode, Cause: err}
	}
	if res.ExitCode == 0 {
		return progress.Succeeded, nil
	}
	if marker, ok := matchMarker(res.Output, o.opts.SuccessMarkers); ok {
		o.logger.Warn("non-zero exit accepted by success marker",
			logging.String("item", item.ID),
			logging.Int("exit_code", res.ExitCode),
			logging.String("marker", marker))
		return progress.Succeeded, nil
	}
	return progress.Failed, apperrors.ItemInstallFailure{ItemID: item.ID, ExitCode: res.ExitCode}
}

func matchMarker(output string, markers []string) (string, bool) {
	lower := strings.ToLower(output)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return m, true
		}
	}
	return "", false
}
