package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SummaryRecomputes counts successful daily summary recomputes by trigger.
	SummaryRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_summary_recomputes_total",
		Help: "Total number of successful daily summary recomputes",
	}, []string{"trigger"})

	// SummaryRecomputeFailures counts recomputes that failed after a log mutation or read.
	SummaryRecomputeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_summary_recompute_failures_total",
		Help: "Total number of failed daily summary recomputes; each leaves a summary stale",
	}, []string{"trigger"})

	// SummaryRecomputeDuration records recompute latency.
	SummaryRecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nutritrack_summary_recompute_duration_seconds",
		Help:    "Daily summary recompute latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Logins counts login attempts by outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// Scans counts food photo analyses by match kind.
	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_scans_total",
		Help: "Total number of food photo analyses",
	}, []string{"match"})

	// CacheRequests counts summary cache lookups by result.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_cache_requests_total",
		Help: "Summary cache lookups by result (hit, miss)",
	}, []string{"result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nutritrack_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// Recompute triggers.
const (
	TriggerLogCreate = "log_create"
	TriggerLogDelete = "log_delete"
	TriggerRead      = "read"
	TriggerSeed      = "seed"
	TriggerManual    = "manual"
)

// Login outcomes.
const (
	LoginSuccess      = "success"
	LoginRepeat       = "repeat"
	LoginBadRequest   = "bad_request"
	LoginUnauthorized = "unauthorized"
	LoginError        = "error"
)
