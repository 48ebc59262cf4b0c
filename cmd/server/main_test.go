package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventdesk/backend/internal/cache"
	"eventdesk/backend/internal/config"
	"eventdesk/backend/internal/store/memory"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short", HourlyRate: decimal.RequireFromString("14.50")})
	assert.Error(t, err)

	err = validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"})
	assert.Error(t, err)
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{
		AuthSecret: "0123456789abcdef0123456789abcdef",
		HourlyRate: decimal.RequireFromString("14.50"),
	})
	assert.NoError(t, err)
}

func TestOpenRepositoryWithoutDatabaseURLUsesMemory(t *testing.T) {
	repo, closeFn, err := openRepository(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, &memory.Store{}, repo)
}

func TestOpenListCacheWithoutRedisIsNoop(t *testing.T) {
	listCache, closeFn := openListCache(context.Background(), config.Config{}, zap.NewNop())
	assert.Nil(t, closeFn)
	assert.Equal(t, cache.NoopListCache{}, listCache)
}
