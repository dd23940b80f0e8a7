package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "SLOT_BACKEND", "UPSTREAM_TIMEOUT", "SESSION_TTL", "REDIS_SLOT_TTL", "LOG_DEV", "COOKIE_SECURE", "SESSION_SECRET"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendMemory, cfg.SlotBackend)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Zero(t, cfg.RedisSlotTTL)
	require.Equal(t, DefaultSessionSecret, cfg.SessionSecret)
	require.False(t, cfg.LogDev)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SLOT_BACKEND", "Redis")
	t.Setenv("REDIS_SLOT_TTL", "72h")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("WHATSAPP_NUMBER", "+1 809 000 0000")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, BackendRedis, cfg.SlotBackend)
	require.Equal(t, 72*time.Hour, cfg.RedisSlotTTL)
	require.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	require.True(t, cfg.LogDev)
	require.Equal(t, "+1 809 000 0000", cfg.WhatsAppNumber)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "Unknown backend", key: "SLOT_BACKEND", val: "cassandra"},
		{name: "Bad duration", key: "SESSION_TTL", val: "forever"},
		{name: "Bad bool", key: "COOKIE_SECURE", val: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()

			require.Error(t, err)
		})
	}
	t.Run("Backend sentinel", func(t *testing.T) {
		t.Setenv("SLOT_BACKEND", "cassandra")
		_, err := Load()
		require.ErrorIs(t, err, ErrUnknownBackend)
	})
}
