// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

var (
	// CacheOperationsTotal tracks cache operations (get, set, delete).
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: videos, video_media, outbox_events, ...
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// VideoCommandsTotal tracks create/update orchestrations by outcome.
	// Labels:
	//   - command: create, update
	//   - result: success, invalid, not_found, internal
	VideoCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_commands_total",
			Help:      "Total number of video create/update commands",
		},
		[]string{"command", "result"},
	)

	// CompensationsTotal tracks resource cleanups after a failed create.
	// Labels:
	//   - status: success, error
	CompensationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Total number of media resource compensations",
		},
		[]string{"status"},
	)

	// MediaStoredTotal tracks stored media resources by kind.
	MediaStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_stored_total",
			Help:      "Total number of stored media resources",
		},
		[]string{"kind"},
	)

	// OutboxEventsTotal tracks outbox relay publications.
	// Labels:
	//   - status: published, error
	OutboxEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Total number of outbox events relayed",
		},
		[]string{"status"},
	)

	// EncoderResultsTotal tracks handled encoder results.
	// Labels:
	//   - status: PROCESSING, COMPLETED, ERROR
	//   - outcome: applied, ignored, dropped, retry
	EncoderResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_results_total",
			Help:      "Total number of encoder results handled",
		},
		[]string{"status", "outcome"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableVideos       = "videos"
	TableVideoMedia   = "video_media"
	TableVideoRefs    = "video_references"
	TableOutboxEvents = "outbox_events"
	TableCategories   = "categories"
	TableGenres       = "genres"
	TableCastMembers  = "cast_members"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Video command constants.
const (
	CommandCreate = "create"
	CommandUpdate = "update"

	CommandResultSuccess  = "success"
	CommandResultInvalid  = "invalid"
	CommandResultNotFound = "not_found"
	CommandResultInternal = "internal"
)

// Generic status constants.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusPublished = "published"
)

// Encoder result outcome constants.
const (
	EncoderOutcomeApplied = "applied"
	EncoderOutcomeIgnored = "ignored"
	EncoderOutcomeDropped = "dropped"
	EncoderOutcomeRetry   = "retry"
)
