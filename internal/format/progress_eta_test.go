package format

import (
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// TestNewProgressWithETA verifies proper initialization.
func TestNewProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(3)

	if p.Total() != 3 {
		t.Errorf("Total() = %d, want 3", p.Total())
	}
	if p.progressRate != 0 {
		t.Errorf("initial progressRate = %f, want 0", p.progressRate)
	}
	if p.startTime.IsZero() {
		t.Error("startTime should not be zero")
	}
	if p.ETA() != 0 {
		t.Errorf("initial ETA = %v, want 0", p.ETA())
	}
}

// TestUpdateWithETA verifies ratio updates and ETA estimation.
func TestUpdateWithETA(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressWithClock(4, clock.now)

	clock.advance(2 * time.Second)
	ratio, eta := p.Update(1)
	if ratio != 0.25 {
		t.Errorf("ratio = %f, want 0.25", ratio)
	}
	// 0.125/s, 0.75 remaining.
	if eta != 6*time.Second {
		t.Errorf("eta = %v, want 6s", eta)
	}

	clock.advance(2 * time.Second)
	ratio, eta = p.Update(4)
	if ratio != 1 {
		t.Errorf("ratio = %f, want 1", ratio)
	}
	if eta != 0 {
		t.Errorf("eta after completion = %v, want 0", eta)
	}
}

// TestProgressWithETAEdgeCases verifies edge case handling.
func TestProgressWithETAEdgeCases(t *testing.T) {
	t.Parallel()
	t.Run("Count exceeds total", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(2)
		if ratio, _ := p.Update(5); ratio != 1 {
			t.Errorf("ratio = %f, want 1", ratio)
		}
	})

	t.Run("Negative count", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(2)
		if ratio, _ := p.Update(-1); ratio != 0 {
			t.Errorf("ratio = %f, want 0", ratio)
		}
	})

	t.Run("Empty run is complete", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(0)
		if p.Ratio() != 1 {
			t.Errorf("ratio = %f, want 1", p.Ratio())
		}
	})

	t.Run("No progress keeps ETA unknown", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		p := newProgressWithClock(3, clock.now)
		clock.advance(time.Minute)
		if _, eta := p.Update(0); eta != 0 {
			t.Errorf("eta = %v, want 0", eta)
		}
	})
}

// TestETACapping verifies that ETA is capped at reasonable values.
func TestETACapping(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1000)
	p.completed = 1
	p.progressRate = 0.0000001

	if eta := p.ETA(); eta > maxETA {
		t.Errorf("ETA = %v, should be capped at %v", eta, maxETA)
	}
}

// TestFormatETA verifies ETA formatting.
func TestFormatETA(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		eta      time.Duration
		expected string
	}{
		{"Zero duration", 0, "calculating..."},
		{"Negative duration", -time.Second, "calculating..."},
		{"Less than a second", 500 * time.Millisecond, "< 1s"},
		{"One second", time.Second, "1s"},
		{"Multiple seconds", 45 * time.Second, "45s"},
		{"One minute", time.Minute, "1m"},
		{"Minutes and seconds", 2*time.Minute + 30*time.Second, "2m30s"},
		{"One hour", time.Hour, "1h"},
		{"Hours and minutes", time.Hour + 15*time.Minute, "1h15m"},
		{"Hours only (no minutes)", 2 * time.Hour, "2h"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if result := FormatETA(tc.eta); result != tc.expected {
				t.Errorf("FormatETA(%v) = %q, want %q", tc.eta, result, tc.expected)
			}
		})
	}
}

// TestFormatProgressBarWithETA verifies combined progress and ETA formatting.
func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		progress float64
		eta      time.Duration
		width    int
		pct      string
	}{
		{"Zero progress", 0, time.Minute, 10, "0.0%"},
		{"Half", 0.5, 30 * time.Second, 20, "50.0%"},
		{"Complete", 1.0, 0, 10, "100.0%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := FormatProgressBarWithETA(tc.progress, tc.eta, tc.width)
			for _, want := range []string{"ETA:", tc.pct, "[", "]"} {
				if !strings.Contains(result, want) {
					t.Errorf("FormatProgressBarWithETA() = %q, missing %q", result, want)
				}
			}
		})
	}
}

// TestProgressBar verifies progress bar rendering.
func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		expected string
	}{
		{0.0, 10, "░░░░░░░░░░"},
		{0.5, 10, "█████░░░░░"},
		{1.0, 10, "██████████"},
		{1.2, 10, "██████████"}, // Cap at 1.0
		{-0.1, 10, "░░░░░░░░░░"},  // Floor at 0.0
	}

	for _, tt := range tests {
		if got := ProgressBar(tt.progress, tt.length); got != tt.expected {
			t.Errorf("ProgressBar(%f, %d) = %s; want %s", tt.progress, tt.length, got, tt.expected)
		}
	}
}

// TestFormatExecutionDuration verifies duration formatting.
func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{500 * time.Nanosecond, "0ms"},
		{10 * time.Millisecond, "10ms"},
		{999 * time.Millisecond, "999ms"},
		{2 * time.Second, "2s"},
		{1540 * time.Millisecond, "1.5s"},
		{59*time.Second + 960*time.Millisecond, "60s"},
		{2*time.Minute + 30*time.Second + 400*time.Millisecond, "2m30s"},
		{time.Hour + 5*time.Minute, "1h5m0s"},
	}

	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}
