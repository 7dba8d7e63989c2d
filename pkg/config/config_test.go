package config_test

import (
	"testing"

	"github.com/commercegate/catalog-agent/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with project id from environment", func(t *testing.T) {
		t.Setenv("GOOGLE_PROJECT_ID", "test-project")

		cfg, err := config.Load(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "test-project", cfg.Google.ProjectID)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 9090, cfg.Server.MetricsPort)
		assert.Equal(t, "us-central1", cfg.Google.Location)
		assert.Equal(t, "default_search", cfg.Retail.ServingConfig)
		assert.Equal(t, "google", cfg.Agent.Provider)
		assert.True(t, cfg.Safety.Enabled)
		assert.False(t, cfg.Safety.Required)
	})

	t.Run("missing project id is fatal", func(t *testing.T) {
		cfg, err := config.Load(t.TempDir())

		assert.Nil(t, cfg)
		assert.Error(t, err)
	})

	t.Run("required but unconfigured safety gate is fatal", func(t *testing.T) {
		t.Setenv("GOOGLE_PROJECT_ID", "test-project")
		t.Setenv("SAFETY_REQUIRED", "true")
		t.Setenv("SAFETY_ENABLED", "false")

		cfg, err := config.Load(t.TempDir())

		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, config.ErrSafetyConfigMissing)
	})

	t.Run("disabled optional safety gate still loads", func(t *testing.T) {
		t.Setenv("GOOGLE_PROJECT_ID", "test-project")
		t.Setenv("SAFETY_ENABLED", "false")

		cfg, err := config.Load(t.TempDir())

		require.NoError(t, err)
		assert.False(t, cfg.SafetyConfigured())
	})
}

func TestRedisConfigAddr(t *testing.T) {
	cfg := config.RedisConfig{Host: "redis.internal", Port: 6380}

	assert.Equal(t, "redis.internal:6380", cfg.Addr())
}
