package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/provision/internal/progress"
	"github.com/agbru/provision/internal/ui"
)

// MockSpinner for testing
type MockSpinner struct {
	mu      sync.Mutex
	starts  int
	stops   int
	suffix  string
	history []string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	m.starts++
	m.mu.Unlock()
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	m.stops++
	m.mu.Unlock()
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	m.suffix = suffix
	m.history = append(m.history, suffix)
	m.mu.Unlock()
}

func TestRealSpinner(t *testing.T) {
	s := newSpinner(spinner.WithWriter(&bytes.Buffer{}))
	s.UpdateSuffix(" testing")
	s.Start()
	s.Stop()
}

func TestFormatUpdateLine(t *testing.T) {
	t.Parallel()
	none := ui.NoColorTheme()
	tests := []struct {
		name   string
		update progress.Update
		want   []string
	}{
		{
			name:   "running",
			update: progress.Update{ID: "Git.Git", Name: "Git", State: progress.Running, Completed: 0, Total: 2},
			want:   []string{"[0/2]", "▶", "Git (Git.Git)", "installing"},
		},
		{
			name:   "succeeded",
			update: progress.Update{ID: "Git.Git", Name: "Git", State: progress.Succeeded, Completed: 1, Total: 2, Elapsed: 1500 * time.Millisecond},
			want:   []string{"[1/2]", "✅", "installed in 1.5s"},
		},
		{
			name:   "failed",
			update: progress.Update{ID: "x", Name: "x", State: progress.Failed, Completed: 2, Total: 2, Err: errors.New("exit code 1")},
			want:   []string{"❌", "failed", ": exit code 1"},
		},
		{
			name:   "skipped",
			update: progress.Update{ID: "x", Name: "x", State: progress.SkippedAlreadyInstalled, Completed: 1, Total: 1},
			want:   []string{"⏭", "already installed"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FormatUpdateLine(none, tc.update)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("FormatUpdateLine() = %q, missing %q", got, w)
				}
			}
		})
	}
	if got := FormatUpdateLine(none, progress.Update{ID: "x", Name: "x"}); strings.Contains(got, "(x)") {
		t.Errorf("identifier repeated when equal to name: %q", got)
	}
}

func TestFormatSpinnerSuffix(t *testing.T) {
	t.Parallel()
	got := FormatSpinnerSuffix(0.5, 2, 4, 10*time.Second, []string{"a", "b", "c", "d", "e"})
	for _, w := range []string{"2/4", "ETA: 10s", "installing: a, b, c", "+2"} {
		if !strings.Contains(got, w) {
			t.Errorf("FormatSpinnerSuffix() = %q, missing %q", got, w)
		}
	}
	if strings.Contains(FormatSpinnerSuffix(1, 4, 4, 0, nil), "installing") {
		t.Error("idle suffix should not list running items")
	}
}

func TestDisplayProgress(t *testing.T) {
	mock := &MockSpinner{}
	original := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	defer func() { newSpinner = original }()

	var buf bytes.Buffer
	ch := make(chan progress.Update, 4)
	ch <- progress.Update{Index: 0, ID: "a", Name: "A", State: progress.Running, Total: 2, Running: []string{"A"}}
	ch <- progress.Update{Index: 0, ID: "a", Name: "A", State: progress.Succeeded, Completed: 1, Total: 2}
	ch <- progress.Update{Index: 1, ID: "b", Name: "B", State: progress.SkippedAlreadyInstalled, Completed: 2, Total: 2}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	CLIProgressReporter{Theme: ui.NoColorTheme()}.DisplayProgress(&wg, ch, 2, &buf)
	wg.Wait()

	out := buf.String()
	if !strings.Contains(out, "A (a) installed") || !strings.Contains(out, "B (b) already installed") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "installing") {
		t.Errorf("running transitions should only update the spinner: %q", out)
	}
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.starts == 0 || mock.stops < mock.starts {
		t.Errorf("spinner starts=%d stops=%d", mock.starts, mock.stops)
	}
	if !strings.Contains(mock.suffix, "2/2") {
		t.Errorf("final suffix = %q, want 2/2", mock.suffix)
	}
	sawRunning := false
	for _, s := range mock.history {
		if strings.Contains(s, "installing: A") {
			sawRunning = true
		}
	}
	if !sawRunning {
		t.Error("spinner never listed the running item")
	}
}

func TestDisplayProgress_ZeroItems(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.Update)
	close(ch)
	var wg sync.WaitGroup
	wg.Add(1)
	var buf bytes.Buffer
	CLIProgressReporter{}.DisplayProgress(&wg, ch, 0, &buf)
	wg.Wait()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLineProgressReporter(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.Update, 2)
	ch <- progress.Update{ID: "a", Name: "a", State: progress.Running, Total: 1}
	ch <- progress.Update{ID: "a", Name: "a", State: progress.Failed, Completed: 1, Total: 1, Err: errors.New("boom")}
	close(ch)
	var wg sync.WaitGroup
	wg.Add(1)
	var buf bytes.Buffer
	LineProgressReporter{Theme: ui.NoColorTheme()}.DisplayProgress(&wg, ch, 1, &buf)
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "installing") || !strings.Contains(lines[1], "failed: boom") {
		t.Errorf("lines = %q", lines)
	}
}
