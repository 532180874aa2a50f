package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigFile = `
server:
  port: 8080
  timeoutSeconds: 30
database:
  host: localhost
  port: 5432
  user: triage
  name: triage
  sslmode: disable
jwt:
  secret: test-secret
  refresh_secret: test-refresh-secret
  expiry_hours: 1
  refresh_expiry_hours: 24
redis:
  url: redis://localhost:6379/0
outbox:
  batch_size: 10
  poll_interval: 5s
`

func writeTestConfig(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfigFile), 0o600)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadConfig_RequiresModelKey(t *testing.T) {
	writeTestConfig(t)
	os.Unsetenv("GEMINI_API_KEY")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI config")
}

func TestLoadConfig_ReadsModelKeyFromEnvironment(t *testing.T) {
	writeTestConfig(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadWorkerConfig_DoesNotRequireModelKey(t *testing.T) {
	writeTestConfig(t)
	os.Unsetenv("GEMINI_API_KEY")

	cfg, err := LoadWorkerConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Outbox.BatchSize)
}
