package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/soltixdb/reportkit/internal/utils"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/reportkit") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides, e.g. REPORTKIT_SERVER_HTTP_PORT
	v.SetEnvPrefix("REPORTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 5580)
	v.SetDefault("server.app_name", "reportkit")

	// Upstream defaults
	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.timeout", utils.DefaultUpstreamTimeout.String())

	// Data source defaults
	v.SetDefault("datasources.namespaces", []string{DefaultNamespace})

	// Cache defaults
	v.SetDefault("cache.ttl", utils.DefaultCacheTTL.String())
	v.SetDefault("cache.cleanup_interval", utils.DefaultCacheCleanupInterval.String())
	v.SetDefault("cache.compress", false)

	// Element defaults
	v.SetDefault("element.use_count", true)
	v.SetDefault("element.remove_filter_on_empty", false)
	v.SetDefault("element.fetch_timeout", utils.DefaultFetchTimeout.String())

	// Event defaults
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.subject", utils.DefaultRefetchSubject)
	v.SetDefault("events.node_id", "gateway-default-node")
	v.SetDefault("events.consumer_group", "reportkit")

	// Queue defaults
	v.SetDefault("queue.type", string(utils.QueueTypeNATS))
	v.SetDefault("queue.url", "nats://localhost:4222")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")

	v.SetDefault("timezone", "UTC")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultNamespace is provided when no namespace is configured
const DefaultNamespace = "default"

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5580,
			AppName:  "reportkit",
		},
		Upstream: UpstreamConfig{
			Timeout: utils.DefaultUpstreamTimeout,
		},
		DataSources: DataSourcesConfig{
			Namespaces: []string{DefaultNamespace},
		},
		Cache: CacheConfig{
			TTL:             utils.DefaultCacheTTL,
			CleanupInterval: utils.DefaultCacheCleanupInterval,
		},
		Element: ElementConfig{
			UseCount:     true,
			FetchTimeout: utils.DefaultFetchTimeout,
		},
		Events: EventsConfig{
			Subject:       utils.DefaultRefetchSubject,
			NodeID:        "gateway-default-node",
			ConsumerGroup: "reportkit",
		},
		Queue: QueueConfig{
			Type: string(utils.QueueTypeNATS),
			URL:  "nats://localhost:4222",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: time.RFC3339,
		},
		Timezone: "UTC",
	}
}
