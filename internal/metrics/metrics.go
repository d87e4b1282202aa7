// Package metrics exposes Prometheus counters for tracker and provider events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartgrow_scans_saved_total",
		Help: "Total diagnoses saved as new scans",
	})

	FollowUpsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartgrow_followups_logged_total",
		Help: "Total follow-up scans logged against monitoring sessions",
	})

	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartgrow_sessions_started_total",
		Help: "Total monitoring sessions created",
	})

	SessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartgrow_session_transitions_total",
		Help: "Monitoring session transitions by target status",
	}, []string{"status"})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartgrow_level_ups_total",
		Help: "Total level-ups awarded",
	})

	AlertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartgrow_alerts_raised_total",
		Help: "Alerts raised by severity",
	}, []string{"severity"})

	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartgrow_provider_requests_total",
		Help: "Diagnosis provider calls by provider and outcome",
	}, []string{"provider", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartgrow_provider_latency_seconds",
		Help:    "Diagnosis provider call latency",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	}, []string{"provider"})

	EnvironmentReadings = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smartgrow_environment_reading",
		Help: "Latest environmental sample by sensor",
	}, []string{"sensor"})
)
