// Package metrics records install outcomes as Prometheus metrics and writes
// them in the text exposition format, for node_exporter's textfile collector
// or any other scraper that reads files.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/orchestration"
	"github.com/agbru/provision/internal/progress"
)

const namespace = "provision"

// Recorder implements orchestration.Metrics on a private registry, so several
// runs in one process (tests) never collide on the default registry.
type Recorder struct {
	registry *prometheus.Registry

	jobsTotal       *prometheus.CounterVec
	installDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	lastRunItems    *prometheus.GaugeVec
	lastRunSeconds  prometheus.Gauge
	lastRunTime     prometheus.Gauge
}

var _ orchestration.Metrics = (*Recorder)(nil)

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder(manager string) *Recorder {
	constLabels := prometheus.Labels{"manager": manager}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "jobs_total",
				Help:        "Install jobs by final state",
				ConstLabels: constLabels,
			},
			[]string{"state"},
		),
		installDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "install_duration_seconds",
				Help:        "Duration of install calls in seconds",
				ConstLabels: constLabels,
				Buckets:     prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"state"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "installs_in_flight",
			Help:        "Install calls currently running",
			ConstLabels: constLabels,
		}),
		lastRunItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "last_run",
				Name:        "items",
				Help:        "Items of the last run by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "last_run",
			Name:        "duration_seconds",
			Help:        "Wall time of the last run",
			ConstLabels: constLabels,
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "last_run",
			Name:        "timestamp_seconds",
			Help:        "Unix time at which the last run finished",
			ConstLabels: constLabels,
		}),
	}
	r.registry.MustRegister(r.jobsTotal, r.installDuration, r.inFlight,
		r.lastRunItems, r.lastRunSeconds, r.lastRunTime)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// JobStarted counts an install call entering flight.
func (r *Recorder) JobStarted(catalog.Item) {
	r.inFlight.Inc()
}

// JobFinished records the final state of a job.
func (r *Recorder) JobFinished(job orchestration.InstallJob) {
	state := job.State.String()
	r.jobsTotal.WithLabelValues(state).Inc()
	if job.State == progress.SkippedAlreadyInstalled {
		return
	}
	r.inFlight.Dec()
	r.installDuration.WithLabelValues(state).Observe(job.Duration().Seconds())
}

// ObserveRun stores the totals of a finished run.
func (r *Recorder) ObserveRun(report *orchestration.Report) {
	r.lastRunItems.WithLabelValues("installed").Set(float64(report.Stats.Installed))
	r.lastRunItems.WithLabelValues("skipped").Set(float64(report.Stats.Skipped))
	r.lastRunItems.WithLabelValues("failed").Set(float64(report.Stats.Failed))
	r.lastRunItems.WithLabelValues("not_started").Set(float64(report.NotStarted))
	r.lastRunSeconds.Set(report.Elapsed.Seconds())
	r.lastRunTime.SetToCurrentTime()
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
