package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// DefaultUpstreamTimeout is the default timeout for data source calls
	DefaultUpstreamTimeout = 15 * time.Second

	// DefaultFetchTimeout bounds a single element exec/count round
	DefaultFetchTimeout = 20 * time.Second

	// PublishTimeout is the timeout for publishing a refetch event
	PublishTimeout = 5 * time.Second
)

// =============================================================================
// Cache Constants
// =============================================================================

const (
	// DefaultCacheTTL is how long an element snapshot stays in the query cache
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheCleanupInterval is the period of the expired-entry sweep
	DefaultCacheCleanupInterval = time.Minute
)

// =============================================================================
// Query Constants
// =============================================================================

const (
	// DefaultPageLimit is the page size of a fresh query
	DefaultPageLimit = 10

	// DefaultPageIndex is the first page; paging is 1-based
	DefaultPageIndex = 1

	// DefaultRefetchSubject is the queue subject carrying refetch events
	DefaultRefetchSubject = "reportkit.refetch"
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
