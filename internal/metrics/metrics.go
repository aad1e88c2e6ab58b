// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deepguard"

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed video analyses by verdict",
		},
		[]string{"verdict"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis including decode and alerting",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	AnalysisRiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_risk_score",
			Help:      "Distribution of combined risk scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
	)

	FramesSampled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frames_sampled",
			Help:      "Frames decoded per analysis",
			Buckets:   []float64{0, 1, 5, 10, 11, 20, 30, 40},
		},
	)

	AlertDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_deliveries_total",
			Help:      "Alert delivery attempts by channel and result (success, failure, rejected)",
		},
		[]string{"channel", "result"},
	)

	// AlertCircuitState is 0 closed, 1 half-open, 2 open
	AlertCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_circuit_state",
			Help:      "Alert channel circuit breaker state",
		},
		[]string{"channel"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_feed_clients",
			Help:      "Connected live feed websocket clients",
		},
	)
)
