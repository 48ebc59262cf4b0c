package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	assert.Empty(t, cfg.AuthSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOURLY_RATE", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.Equal(t, 480, cfg.AccessTokenTTLMinutes)
	assert.True(t, cfg.HourlyRate.Equal(decimal.RequireFromString("14.50")))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOURLY_RATE", "16,25")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.HourlyRate.Equal(decimal.RequireFromString("16.25")))
}

func TestInvalidHourlyRateFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "-3", "0"} {
		t.Setenv("HOURLY_RATE", raw)
		assert.True(t, Load().HourlyRate.Equal(decimal.RequireFromString("14.50")), raw)
	}
}
