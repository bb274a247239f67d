package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s3cret
database:
  host: 127.0.0.1
  port: 3306
  user: library
  dbname: library
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "dev", cfg.Server.Mode)
	assert.Equal(t, 24, cfg.JWT.AccessTTLHours)
	assert.Equal(t, 168, cfg.JWT.RefreshTTLHours)
	assert.Equal(t, 60, cfg.Sweep.IntervalMinutes)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  mode: release
jwt:
  secret: s3cret
  access_ttl_hours: 2
  refresh_ttl_hours: 48
cors:
  allow_origins:
    - https://library.example.com
sweep:
  interval_minutes: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 2, cfg.JWT.AccessTTLHours)
	assert.Equal(t, 48, cfg.JWT.RefreshTTLHours)
	assert.Equal(t, []string{"https://library.example.com"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, 15, cfg.Sweep.IntervalMinutes)
}

func TestLoad_SecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	path := writeConfig(t, `
jwt:
  secret: file-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, `
server:
  addr: ":8080"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
