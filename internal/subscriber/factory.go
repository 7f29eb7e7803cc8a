package subscriber

import (
	"fmt"
	"strings"

	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/queue"
	"github.com/soltixdb/reportkit/internal/utils"
)

// NewSubscriber creates a new Subscriber based on the queue configuration
func NewSubscriber(cfg config.QueueConfig, subCfg Config) (Subscriber, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	// Default to NATS if not specified
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return NewNATSSubscriber(cfg.URL, subCfg)
	case utils.QueueTypeRedis:
		addr := cfg.URL
		if addr == "" {
			addr = "localhost:6379"
		}
		streamPrefix := cfg.RedisStream
		if streamPrefix == "" {
			streamPrefix = queue.DefaultRedisStream
		}
		return NewRedisSubscriber(addr, cfg.Password, cfg.RedisDB, streamPrefix, subCfg)
	case utils.QueueTypeKafka:
		return NewKafkaSubscriber(cfg.KafkaBrokers, subCfg)
	case utils.QueueTypeMemory:
		return NewMemorySubscriber(queue.DefaultBroker()), nil
	default:
		return nil, fmt.Errorf("unsupported queue type: %s", queueType)
	}
}
