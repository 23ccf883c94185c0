package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeUnknown = "unknown_transformer"
)

// Metrics records pipeline activity. A nil *Metrics records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "txtransform",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Pipeline runs by outcome.",
			},
			[]string{"outcome"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "txtransform",
				Subsystem: "pipeline",
				Name:      "steps_total",
				Help:      "Transformer invocations by transformer and outcome.",
			},
			[]string{"transformer", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "txtransform",
				Subsystem: "pipeline",
				Name:      "step_duration_seconds",
				Help:      "Transformer invocation duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transformer"},
		),
	}
	reg.MustRegister(m.runs, m.steps, m.stepDuration)
	return m
}

func (m *Metrics) observeRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStep(transformer, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	// Unknown names come from user input; keep them out of the label set.
	if outcome == outcomeUnknown {
		transformer = "unknown"
	} else {
		m.stepDuration.WithLabelValues(transformer).Observe(d.Seconds())
	}
	m.steps.WithLabelValues(transformer, outcome).Inc()
}
