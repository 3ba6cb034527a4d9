package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

// LoadConfig loads the configuration from file and environment variables.
// Precedence: environment > config file > defaults.
func LoadConfig(log logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/railtix/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		log.Debug(context.Background(), "No config file found, using defaults and environment")
	}

	v.SetEnvPrefix("RAILTIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// WatchConfig re-reads the config file on change and invokes onChange with the
// fresh configuration. Invalid updates are logged and dropped; the running
// configuration stays as it was.
func WatchConfig(log logger.Logger, onChange func(*Config)) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/railtix/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		return // nothing to watch
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Error(context.Background(), "Config reload failed to unmarshal", err,
				logger.String("file", e.Name))
			return
		}
		if err := cfg.Validate(); err != nil {
			log.Error(context.Background(), "Config reload rejected", err,
				logger.String("file", e.Name))
			return
		}
		log.Info(context.Background(), "Configuration reloaded", logger.String("file", e.Name))
		onChange(&cfg)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)

	v.SetDefault("booking.total_tickets", def.Booking.TotalTickets)
	v.SetDefault("booking.max_tickets_per_user", def.Booking.MaxTicketsPerUser)

	v.SetDefault("rate_limit.window", constants.RequestWindow)
	v.SetDefault("rate_limit.max_per_window", constants.MaxRequestsPerWindow)
	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.redis_keyspace", def.RateLimit.RedisKeyspace)

	v.SetDefault("fraud.device_ip_threshold", constants.DeviceIPThreshold)
	v.SetDefault("fraud.entry_ttl", 0)

	v.SetDefault("payment.enabled", false)
	v.SetDefault("payment.delay", constants.PaymentDelay)

	v.SetDefault("archive.driver", "none")
	v.SetDefault("kafka.enabled", false)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)

	v.SetDefault("monitoring.pprof_enabled", false)
}
