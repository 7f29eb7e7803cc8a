package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the complete gateway configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Upstream    UpstreamConfig    `mapstructure:"upstream"`
	DataSources DataSourcesConfig `mapstructure:"datasources"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Element     ElementConfig     `mapstructure:"element"`
	Events      EventsConfig      `mapstructure:"events"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	// Timezone drives preset resolution and temporal formatting.
	// Accepts IANA names ("Asia/Tokyo") or offsets ("+09:00").
	Timezone string `mapstructure:"timezone"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
	AppName  string `mapstructure:"app_name"`  // Reported in the Server header and health response
}

// UpstreamConfig configures the HTTP client behind remote data sources
type UpstreamConfig struct {
	BaseURL string            `mapstructure:"base_url"` // Prefix of ds/{name}/exec|columns|count
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"` // Sent with every upstream request
}

// DataSourcesConfig lists the namespaces the gateway provides and the data
// sources served by the host itself. Every namespace gets its own session
// with the same bindings.
type DataSourcesConfig struct {
	Namespaces []string `mapstructure:"namespaces"`
	Local      []string `mapstructure:"local"`
}

// CacheConfig configures the shared query cache
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Compress        bool          `mapstructure:"compress"` // snappy-encode cached snapshots
}

// ElementConfig holds element defaults applied when a request omits them
type ElementConfig struct {
	UseCount            bool          `mapstructure:"use_count"`
	RemoveFilterOnEmpty bool          `mapstructure:"remove_filter_on_empty"`
	FetchTimeout        time.Duration `mapstructure:"fetch_timeout"`
}

// EventsConfig configures refetch events over the message queue
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Subject       string `mapstructure:"subject"`        // Subject/topic carrying refetch events
	NodeID        string `mapstructure:"node_id"`        // Unique per gateway replica
	ConsumerGroup string `mapstructure:"consumer_group"` // Durable consumer prefix
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "reportkit")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("upstream config: %w", err)
	}

	if err := c.DataSources.Validate(); err != nil {
		return fmt.Errorf("datasources config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Element.Validate(); err != nil {
		return fmt.Errorf("element config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if _, err := ParseTimezone(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates upstream configuration
func (c *UpstreamConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}

	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream.base_url must be http or https, got %q", c.BaseURL)
	}

	return nil
}

// Validate validates data source configuration
func (c *DataSourcesConfig) Validate() error {
	if len(c.Namespaces) == 0 {
		return fmt.Errorf("at least one namespace is required")
	}

	seen := make(map[string]bool, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		if ns == "" {
			return fmt.Errorf("namespace name cannot be empty")
		}
		if seen[ns] {
			return fmt.Errorf("duplicate namespace: %s", ns)
		}
		seen[ns] = true
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cache.cleanup_interval must be positive")
	}

	return nil
}

// Validate validates element configuration
func (c *ElementConfig) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("element.fetch_timeout must be positive")
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Subject == "" {
		return fmt.Errorf("events.subject is required when events are enabled")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
