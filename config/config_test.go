package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_EmbeddedDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.PolicyTTL)
	assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
	assert.Contains(t, cfg.Handlers.Cors.AllowedOrigins, "http://localhost:5173")
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
	t.Setenv("SERVER_HTTPPORT", "8080")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "3001", cfg.Server.HTTPPort)
	assert.Equal(t, "9090", cfg.Handlers.Prometheus.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
}
