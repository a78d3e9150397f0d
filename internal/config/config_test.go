package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, "localhost", cfg.Mongo.Host)
	assert.Equal(t, 27017, cfg.Mongo.Port)
	assert.Equal(t, "files_manager", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI())
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, "/tmp/files_manager", cfg.Storage.Root)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "filevault:jobs", cfg.Queue.Stream)
	assert.Equal(t, "filevault-workers", cfg.Queue.Group)
	assert.True(t, cfg.Sweep.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FILEVAULT_HTTP_PORT", "8080")
	t.Setenv("FILEVAULT_STORAGE_ROOT", "/var/lib/filevault")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "/var/lib/filevault", cfg.Storage.Root)
}
