package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/logging"
	"github.com/agbru/provision/internal/pkgmgr"
	"github.com/agbru/provision/internal/progress"
)

func TestInstallJobTransitions(t *testing.T) {
	t.Parallel()
	t0 := time.Unix(100, 0)
	t1 := t0.Add(3 * time.Second)

	t.Run("install path", func(t *testing.T) {
		t.Parallel()
		j := InstallJob{Item: catalog.Item{ID: "x"}}
		if err := j.start(t0); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := j.finish(progress.Succeeded, t1, pkgmgr.Result{}, nil); err != nil {
			t.Fatalf("finish: %v", err)
		}
		if j.Duration() != 3*time.Second {
			t.Errorf("Duration() = %v, want 3s", j.Duration())
		}
		if err := j.start(t1); err == nil {
			t.Error("restart of a terminal job was accepted")
		}
	})

	t.Run("skip path", func(t *testing.T) {
		t.Parallel()
		j := InstallJob{Item: catalog.Item{ID: "x"}}
		if err := j.skip(t0); err != nil {
			t.Fatalf("skip: %v", err)
		}
		if j.Duration() != 0 {
			t.Errorf("Duration() = %v, want 0 for a skipped job", j.Duration())
		}
		if err := j.finish(progress.Failed, t1, pkgmgr.Result{}, errors.New("x")); err == nil {
			t.Error("finish of a skipped job was accepted")
		}
	})

	t.Run("finish requires running", func(t *testing.T) {
		t.Parallel()
		j := InstallJob{Item: catalog.Item{ID: "x"}}
		if err := j.finish(progress.Succeeded, t1, pkgmgr.Result{}, nil); err == nil {
			t.Error("finish of a pending job was accepted")
		}
	})

	t.Run("finish rejects non-terminal target", func(t *testing.T) {
		t.Parallel()
		j := InstallJob{Item: catalog.Item{ID: "x"}}
		_ = j.start(t0)
		if err := j.finish(progress.SkippedAlreadyInstalled, t1, pkgmgr.Result{}, nil); err == nil {
			t.Error("finish into skipped was accepted")
		}
	})
}

func TestAggregatorRejectsDuplicateTerminal(t *testing.T) {
	t.Parallel()
	jobs := []InstallJob{{Item: catalog.Item{ID: "a"}}}
	agg := newAggregator(jobs, nil, noopMetrics{}, logging.NopLogger{})
	now := time.Now()
	agg.apply(event{index: 0, state: progress.Running, at: now})
	agg.apply(event{index: 0, state: progress.Succeeded, at: now})
	agg.apply(event{index: 0, state: progress.Failed, at: now})
	if agg.stats != (RunStatistics{Installed: 1}) {
		t.Errorf("stats = %+v, want exactly one installed", agg.stats)
	}
	if len(agg.running) != 0 {
		t.Errorf("running = %v, want empty", agg.running)
	}
}

func TestReportNotStarted(t *testing.T) {
	t.Parallel()
	r := &Report{Jobs: []InstallJob{
		{State: progress.Pending},
		{State: progress.Succeeded},
		{State: progress.Pending},
	}}
	r.countNotStarted()
	if r.NotStarted != 2 {
		t.Errorf("NotStarted = %d, want 2", r.NotStarted)
	}
}

// scriptedInstaller answers every call from a per-item outcome table.
type scriptedInstaller struct {
	outcomes map[string]int // 0 present, 1 install ok, 2 install fails, 3 probe error then ok
}

func (s scriptedInstaller) Available(context.Context) error { return nil }

func (s scriptedInstaller) Probe(_ context.Context, id string) (pkgmgr.Presence, error) {
	switch s.outcomes[id] {
	case 0:
		return pkgmgr.Present, nil
	case 3:
		return pkgmgr.Unknown, errors.New("probe failed")
	}
	return pkgmgr.Absent, nil
}

func (s scriptedInstaller) Install(_ context.Context, id string) (pkgmgr.Result, error) {
	if s.outcomes[id] == 2 {
		return pkgmgr.Result{ExitCode: 1}, nil
	}
	return pkgmgr.Result{}, nil
}

// TestRunStatisticsProperty checks that every item ends in exactly one
// counter, whatever the mix of outcomes, in both modes.
func TestRunStatisticsProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	check := func(mode Mode, force bool) func([]int) bool {
		return func(outcomes []int) bool {
			script := scriptedInstaller{outcomes: map[string]int{}}
			list := make([]catalog.Item, len(outcomes))
			var want RunStatistics
			for i, o := range outcomes {
				id := fmt.Sprintf("item-%d", i)
				list[i] = catalog.Item{ID: id}
				script.outcomes[id] = o
				switch {
				case o == 0 && !force:
					want.Skipped++
				case o == 2:
					want.Failed++
				default:
					want.Installed++
				}
			}
			report, err := New(script, Options{Mode: mode, ForceReinstall: force, Concurrency: 3}).
				Run(context.Background(), list, nil, io.Discard)
			if err != nil {
				return false
			}
			return report.Stats == want &&
				report.Stats.Total() == uint(len(outcomes)) &&
				report.NotStarted == 0
		}
	}
	outcomes := gen.SliceOf(gen.IntRange(0, 3))

	properties.Property("sequential counters sum to item count", prop.ForAll(check(Sequential, false), outcomes))
	properties.Property("parallel counters sum to item count", prop.ForAll(check(Parallel, false), outcomes))
	properties.Property("forced parallel never skips", prop.ForAll(check(Parallel, true), outcomes))

	properties.TestingRun(t)
}
