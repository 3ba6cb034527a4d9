package config

import (
	"fmt"
	"time"

	"github.com/railtix/railtix/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Booking    BookingConfig    `mapstructure:"booking"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Fraud      FraudConfig      `mapstructure:"fraud"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
}

// BookingConfig sizes the ticket pool and the per-user quota.
type BookingConfig struct {
	TotalTickets      int `mapstructure:"total_tickets"`
	MaxTicketsPerUser int `mapstructure:"max_tickets_per_user"`
}

// RateLimitConfig parameterizes the sliding window. Two policies ship by
// default: the API variant (15m/10 requests) and the console variant
// (30m/3 bookings); both are expressed through these two knobs.
type RateLimitConfig struct {
	Window        time.Duration `mapstructure:"window"`
	MaxPerWindow  int           `mapstructure:"max_per_window"`
	Store         string        `mapstructure:"store"` // "memory" or "redis"
	RedisKeyspace string        `mapstructure:"redis_keyspace"`
}

// FraudConfig parameterizes the device/IP heuristic. EntryTTL of zero means
// observed pairs never expire.
type FraudConfig struct {
	DeviceIPThreshold int           `mapstructure:"device_ip_threshold"`
	EntryTTL          time.Duration `mapstructure:"entry_ttl"`
}

// PaymentConfig controls the stub payment authority.
type PaymentConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Delay   time.Duration `mapstructure:"delay"`
}

type RedisConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"pool_size"`
	MinIdleConns int      `mapstructure:"min_idle_conns"`
}

// ArchiveConfig selects the booking archive backend. "none" disables it; the
// authoritative booking state is always process memory either way.
type ArchiveConfig struct {
	Driver string `mapstructure:"driver"` // "none", "sqlite", or "postgres"
	DSN    string `mapstructure:"dsn"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

type MonitoringConfig struct {
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Booking.TotalTickets < 0 {
		return fmt.Errorf("booking.total_tickets must not be negative, got %d", c.Booking.TotalTickets)
	}
	if c.Booking.MaxTicketsPerUser < 1 {
		return fmt.Errorf("booking.max_tickets_per_user must be at least 1, got %d", c.Booking.MaxTicketsPerUser)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.MaxPerWindow < 1 {
		return fmt.Errorf("rate_limit.max_per_window must be at least 1, got %d", c.RateLimit.MaxPerWindow)
	}
	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("rate_limit.store must be \"memory\" or \"redis\", got %q", c.RateLimit.Store)
	}
	if c.RateLimit.Store == "redis" && len(c.Redis.Addresses) == 0 {
		return fmt.Errorf("rate_limit.store is \"redis\" but no redis.addresses configured")
	}
	switch c.Archive.Driver {
	case "none", "sqlite", "postgres":
	default:
		return fmt.Errorf("archive.driver must be \"none\", \"sqlite\", or \"postgres\", got %q", c.Archive.Driver)
	}
	if c.Archive.Driver != "none" && c.Archive.DSN == "" {
		return fmt.Errorf("archive.driver %q requires archive.dsn", c.Archive.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.enabled requires kafka.brokers")
	}
	return nil
}

// Default returns the stock configuration: a 500
// ticket pool, 5 tickets per user, the 15 minute / 10 request API window, the
// fraud threshold of 3, and everything external disabled.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         constants.DefaultServicePort,
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Booking: BookingConfig{
			TotalTickets:      constants.TotalTickets,
			MaxTicketsPerUser: constants.MaxTicketsPerUser,
		},
		RateLimit: RateLimitConfig{
			Window:        constants.RequestWindow,
			MaxPerWindow:  constants.MaxRequestsPerWindow,
			Store:         "memory",
			RedisKeyspace: "railtix:ratelimit",
		},
		Fraud: FraudConfig{
			DeviceIPThreshold: constants.DeviceIPThreshold,
			EntryTTL:          0,
		},
		Payment: PaymentConfig{
			Enabled: false,
			Delay:   constants.PaymentDelay,
		},
		Archive: ArchiveConfig{Driver: "none"},
		Log:     LogConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{ServiceName: "railtix"},
	}
}
