package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	phaseSolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "optischedule",
		Name:      "phase_solve_duration_seconds",
		Help:      "Wall-clock time spent in one solver attempt.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
	}, []string{"mode"})

	phaseOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optischedule",
		Name:      "phase_outcomes_total",
		Help:      "Solver attempt outcomes by final status.",
	}, []string{"status"})

	eventsScheduled = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "optischedule",
		Name:      "scheduled_events",
		Help:      "Events in the most recently generated schedule.",
	})
)
