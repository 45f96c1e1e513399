package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Sync metric names
const (
	MetricNameQueueDepth         = "sync_queue_depth"
	MetricNameQueueEvictions     = "sync_queue_evictions_total"
	MetricNameDrainEntries       = "sync_drain_entries_total"
	MetricNameDrainPasses        = "sync_drain_passes_total"
	MetricNameMutationsApplied   = "sync_mutations_applied_total"
	MetricNameSnapshotWriteFails = "sync_snapshot_write_failures_total"
	MetricNameNeedsSync          = "sync_needs_sync"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Sync metric help text
const (
	HelpTextQueueDepth         = "Current number of deferred mutations in the offline queue"
	HelpTextQueueEvictions     = "Total entries evicted from a full offline queue"
	HelpTextDrainEntries       = "Total queue entries processed by drain passes, by outcome"
	HelpTextDrainPasses        = "Total queue drain passes attempted"
	HelpTextMutationsApplied   = "Total mutations dispatched, by collection and result"
	HelpTextSnapshotWriteFails = "Total snapshot cache write failures"
	HelpTextNeedsSync          = "Whether recovered local data awaits a manual push (0 or 1)"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelOutcome    = "outcome"
	LabelCollection = "collection"
	LabelResult     = "result"
)

// Drain outcome label values
const (
	OutcomeSent     = "sent"
	OutcomeDropped  = "dropped"
	OutcomeRetained = "retained"
)

// HTTPLatencyBuckets are the histogram buckets for request latency,
// tuned for a LAN-local API (most requests well under a second).
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
