package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisStream is the stream prefix shared with the Redis subscriber
const DefaultRedisStream = "reportkit"

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379)
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream prefix (default: "reportkit")
	MaxLen   int64  // Approximate stream cap (default: 10000)
}

// RedisPublisher implements Publisher using Redis Streams
type RedisPublisher struct {
	client *redis.Client
	config RedisConfig
}

// newRedisPublisher connects to Redis and checks the connection
func newRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	// Parse URL or use defaults
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to simple options
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = DefaultRedisStream
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 10000
	}

	return &RedisPublisher{client: client, config: cfg}, nil
}

// RedisStreamName converts a subject to a Redis stream name
func RedisStreamName(prefix, subject string) string {
	return fmt.Sprintf("%s:%s", prefix, subject)
}

// Publish appends a message to the subject stream
func (p *RedisPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	stream := RedisStreamName(p.config.Stream, subject)

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.config.MaxLen,
		Approx: true,
		ID:     "*", // Auto-generate ID
		Values: map[string]interface{}{
			"data": data,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", stream, err)
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
