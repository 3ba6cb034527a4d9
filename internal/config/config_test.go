package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/logger"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, constants.TotalTickets, cfg.Booking.TotalTickets)
	assert.Equal(t, constants.MaxTicketsPerUser, cfg.Booking.MaxTicketsPerUser)
	assert.Equal(t, constants.RequestWindow, cfg.RateLimit.Window)
	assert.Equal(t, constants.MaxRequestsPerWindow, cfg.RateLimit.MaxPerWindow)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.Equal(t, "none", cfg.Archive.Driver)
	assert.False(t, cfg.Payment.Enabled)
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, constants.TotalTickets, cfg.Booking.TotalTickets)
	assert.Equal(t, constants.DeviceIPThreshold, cfg.Fraud.DeviceIPThreshold)
	assert.Equal(t, time.Duration(0), cfg.Fraud.EntryTTL)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv("RAILTIX_BOOKING_TOTAL_TICKETS", "120")
	t.Setenv("RAILTIX_RATE_LIMIT_MAX_PER_WINDOW", "3")
	t.Setenv("RAILTIX_RATE_LIMIT_WINDOW", "30m")

	cfg, err := LoadConfig(logger.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Booking.TotalTickets)
	assert.Equal(t, 3, cfg.RateLimit.MaxPerWindow)
	assert.Equal(t, 30*time.Minute, cfg.RateLimit.Window)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative pool", func(c *Config) { c.Booking.TotalTickets = -1 }},
		{"zero per-user cap", func(c *Config) { c.Booking.MaxTicketsPerUser = 0 }},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }},
		{"zero max per window", func(c *Config) { c.RateLimit.MaxPerWindow = 0 }},
		{"unknown store", func(c *Config) { c.RateLimit.Store = "memcached" }},
		{"redis store without addresses", func(c *Config) { c.RateLimit.Store = "redis" }},
		{"unknown archive driver", func(c *Config) { c.Archive.Driver = "oracle" }},
		{"archive without dsn", func(c *Config) { c.Archive.Driver = "sqlite" }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
