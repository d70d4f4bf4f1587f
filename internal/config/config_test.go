package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/dashboard-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, 30, cfg.SnapshotTTLMinutes)
	assert.Equal(t, 10, cfg.RewarmIntervalMinutes)
	assert.Equal(t, 60, cfg.OTPCooldownSeconds)
}

func TestLoad_MissingAPIURL(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MARKETPLACE_API_URL")
}

func TestLoad_MissingRedisURL(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.test")
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DASHBOARD_PORT", "9000")
	t.Setenv("SNAPSHOT_TTL_MINUTES", "5")
	t.Setenv("OTP_COOLDOWN_SECONDS", "120")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.SnapshotTTLMinutes)
	assert.Equal(t, 120, cfg.OTPCooldownSeconds)
}

func TestLoad_RejectsBadIntegers(t *testing.T) {
	setRequired(t)
	for _, bad := range []string{"0", "-3", "ten"} {
		t.Setenv("REWARM_INTERVAL_MINUTES", bad)
		_, err := config.Load()
		assert.Error(t, err, "REWARM_INTERVAL_MINUTES=%s", bad)
	}
}
