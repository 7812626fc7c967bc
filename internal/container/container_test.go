package container

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-policy-admin/config"
)

func TestNewContainer_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageDriverMemory
	cfg.Cache.PolicyTTL = time.Minute
	cfg.Repositories.Postgres.Seed = true

	c, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Pool)
	assert.NotNil(t, c.UserHandler)
	assert.NotNil(t, c.PolicyHandler)
}

func TestNewContainer_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "sqlite"

	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestNewContainer_PostgresWithoutHost(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageDriverPostgres

	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
