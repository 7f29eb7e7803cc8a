package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/utils"
)

// NewPublisher creates a Publisher based on configuration.
// Default is NATS if type is not specified.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	// Default to NATS if not specified
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSPublisher(cfg.URL, cfg.Username, cfg.Password)

	case utils.QueueTypeRedis:
		return newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.QueueTypeKafka:
		return newKafkaPublisher(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	case utils.QueueTypeMemory:
		return NewMemoryPublisher(DefaultBroker()), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}
