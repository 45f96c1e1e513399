package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Sync Metrics
var (
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameQueueDepth,
			Help: HelpTextQueueDepth,
		},
	)

	QueueEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameQueueEvictions,
			Help: HelpTextQueueEvictions,
		},
	)

	DrainEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrainEntries,
			Help: HelpTextDrainEntries,
		},
		[]string{LabelOutcome},
	)

	DrainPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDrainPasses,
			Help: HelpTextDrainPasses,
		},
	)

	MutationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMutationsApplied,
			Help: HelpTextMutationsApplied,
		},
		[]string{LabelCollection, LabelResult},
	)

	SnapshotWriteFails = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotWriteFails,
			Help: HelpTextSnapshotWriteFails,
		},
	)

	NeedsSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameNeedsSync,
			Help: HelpTextNeedsSync,
		},
	)
)
