package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "maintenance:events", cfg.Notify.Stream)
	assert.Equal(t, 256, cfg.Notify.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Notify.HandlerTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NOTIFY_QUEUE_SIZE", "not-a-number")
	t.Setenv("JWT_ACCESS_EXPIRY", "bogus")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 256, cfg.Notify.QueueSize)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestLoad_PanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}
