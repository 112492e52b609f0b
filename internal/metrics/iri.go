package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Model and reference-data collectors.
var (
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each stage of an IRI evaluation",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of IRI evaluations",
		},
		[]string{"status"},
	)

	SettingsCompilations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_compilations_total",
			Help:      "Settings records compiled into native switch arrays",
		},
	)

	SettingsReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_reloads_total",
			Help:      "Settings file reloads",
		},
		[]string{"result"},
	)

	ReferenceDownloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_downloads_total",
			Help:      "Reference data download attempts",
		},
		[]string{"file", "result"},
	)

	ReferenceFileAge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_file_age_seconds",
			Help:      "Age of each reference data file at the last check",
		},
		[]string{"file"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the evaluation rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(
		StageDuration,
		EvaluationsTotal,
		SettingsCompilations,
		SettingsReloads,
		ReferenceDownloads,
		ReferenceFileAge,
		RateLimited,
	)
}

// ObserveStage records one stage timing.
func ObserveStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
