package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FILEDOCK_AUTH_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "filedock", cfg.Storage.Prefix)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
server:
  port: "9090"
storage:
  backend: local
  prefix: custom
auth:
  secret: file-secret
  token_ttl_minutes: 60
`)
	t.Setenv("FILEDOCK_AUTH_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "custom", cfg.Storage.Prefix)
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FILEDOCK_AUTH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth secret")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	writeConfig(t, `
auth:
  secret: file-secret
`)
	t.Setenv("FILEDOCK_AUTH_SECRET", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
}

func TestLoadS3RequiresCredentials(t *testing.T) {
	writeConfig(t, `
storage:
  backend: s3
  s3:
    bucket: media
auth:
  secret: s
`)
	t.Setenv("FILEDOCK_AUTH_SECRET", "")
	t.Setenv("STORAGE_ACCESS_KEY", "")
	t.Setenv("STORAGE_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 backend")
}
