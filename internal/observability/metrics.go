package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// SimilarPostsSelections counts similar-post selections by the branch that produced the result.
	SimilarPostsSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_similar_posts_selections_total",
		Help: "Similar-post selections by branch (same_author or backfill)",
	}, []string{"branch"})

	// ReactionToggles counts reaction toggles by kind and resulting state.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_reaction_toggles_total",
		Help: "Reaction toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// Uploads counts image uploads by outcome.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_uploads_total",
		Help: "Image uploads by outcome",
	}, []string{"outcome"})

	// CacheLookups counts cache-aside lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_cache_lookups_total",
		Help: "Cache-aside lookups by result (hit or miss)",
	}, []string{"result"})

	// WebSocketConnections is the gauge of live feed connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "travelog_websocket_connections",
		Help: "Number of active live feed WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelog_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)
