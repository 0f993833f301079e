package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("OPENWEATHER_API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StateModeMemory, cfg.StateMode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STATE_MODE", "message")
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("SWEEP_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StateModeMessage, cfg.StateMode)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
}

func TestLoadRejectsMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPENWEATHER_API_KEY", "key")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownStateMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STATE_MODE", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
