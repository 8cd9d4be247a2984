package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics. Request-level metrics come from fiberprometheus; these
// cover the interaction and relationship engine itself.
var (
	// TogglesApplied counts interaction set toggles by kind and outcome.
	TogglesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_interaction_toggles_total",
		Help: "Interaction set toggles applied, by kind and outcome (added/removed).",
	}, []string{"kind", "outcome"})

	// RelationEventsPublished counts relationship events published to the bus.
	RelationEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_relation_events_published_total",
		Help: "Relationship mutation events published, by type.",
	}, []string{"type"})

	// RelationEventPublishFailures counts publish attempts the bus rejected.
	RelationEventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ripple_relation_event_publish_failures_total",
		Help: "Relationship events that could not be published after a committed mutation.",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_ws_backpressure_drops_total",
		Help: "WebSocket messages dropped due to backpressure, by hub and reason.",
	}, []string{"hub", "reason"})

	// ActiveWebSockets tracks currently open websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_ws_active_connections",
		Help: "Currently open websocket connections.",
	})

	// RedisErrors counts Redis command failures seen by the cache layer.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Redis command errors, by command.",
	}, []string{"command"})
)
