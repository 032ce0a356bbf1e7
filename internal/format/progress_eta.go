package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps ETA estimates so a stalled run never displays absurd values.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest sample in the exponential moving
// average of the completion rate.
const etaSmoothing = 0.3

// ProgressWithETA tracks how many of a fixed number of jobs have completed and
// derives a smoothed completion rate from which the remaining time is
// estimated. It is not safe for concurrent use; a single aggregator owns it.
type ProgressWithETA struct {
	total        int
	completed    int
	startTime    time.Time
	lastUpdate   time.Time
	lastRatio    float64
	progressRate float64 // ratio per second
	now          func() time.Time
}

// NewProgressWithETA creates a tracker for total jobs, started now.
func NewProgressWithETA(total int) *ProgressWithETA {
	return newProgressWithClock(total, time.Now)
}

func newProgressWithClock(total int, now func() time.Time) *ProgressWithETA {
	start := now()
	return &ProgressWithETA{total: total, startTime: start, lastUpdate: start, now: now}
}

// Total returns the number of tracked jobs.
func (p *ProgressWithETA) Total() int { return p.total }

// Completed returns the number of jobs recorded as finished.
func (p *ProgressWithETA) Completed() int { return p.completed }

// Ratio returns the completed fraction in [0, 1]. A tracker with no jobs is
// complete.
func (p *ProgressWithETA) Ratio() float64 {
	if p.total <= 0 {
		return 1
	}
	return clamp(float64(p.completed) / float64(p.total))
}

// Update records the completed count and returns the new ratio and ETA.
// Counts outside [0, total] are clamped.
func (p *ProgressWithETA) Update(completed int) (float64, time.Duration) {
	if completed < 0 {
		completed = 0
	}
	if completed > p.total {
		completed = p.total
	}
	p.completed = completed
	ratio := p.Ratio()

	now := p.now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && ratio > p.lastRatio {
		sample := (ratio - p.lastRatio) / dt
		if p.progressRate == 0 {
			p.progressRate = sample
		} else {
			p.progressRate = etaSmoothing*sample + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastRatio = ratio
	}
	return ratio, p.ETA()
}

// ETA returns the estimated remaining time, or zero while no rate is known
// or once every job has completed.
func (p *ProgressWithETA) ETA() time.Duration {
	ratio := p.Ratio()
	if ratio >= 1 || p.progressRate <= 0 {
		return 0
	}
	secs := (1 - ratio) / p.progressRate
	eta := time.Duration(secs * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return p.now().Sub(p.startTime)
}

// FormatETA renders an ETA compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta / time.Hour)
	m := int((eta % time.Hour) / time.Minute)
	s := int((eta % time.Minute) / time.Second)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders a bar of length cells for a ratio, clamped to [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = clamp(progress)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 1m5s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp(progress)*100, FormatETA(eta))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
