package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9095, c.Port)
	assert.Equal(t, "http", c.Collaborator.Kind)
	assert.Equal(t, "http://localhost:5000", c.Collaborator.URL)
	assert.Equal(t, "./scheduler", c.Collaborator.Binary)
	assert.Equal(t, 10*time.Second, c.Collaborator.Timeout)
	assert.Equal(t, 3, c.Collaborator.Retries)
	assert.Equal(t, 200*time.Millisecond, c.Collaborator.Backoff)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, int64(1<<20), c.CacheMaxCost)
	assert.Empty(t, c.GraphiteHost)
	assert.True(t, c.Development)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `port: 8080
collaborator:
  kind: exec
  binary: /opt/scheduler
  timeout: 2s
  retries: 1
cache:
  ttl: 30s
log:
  development: false
`)
	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "exec", c.Collaborator.Kind)
	assert.Equal(t, "/opt/scheduler", c.Collaborator.Binary)
	assert.Equal(t, 2*time.Second, c.Collaborator.Timeout)
	assert.Equal(t, 1, c.Collaborator.Retries)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
	assert.False(t, c.Development)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "port: 8080\n")
	t.Setenv("VISUALIZER_PORT", "7000")
	t.Setenv("COLLABORATOR_URL", "http://scheduler:5000")
	t.Setenv("GRAPHITE_HOST", "graphite:2003")

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Port)
	assert.Equal(t, "http://scheduler:5000", c.Collaborator.URL)
	assert.Equal(t, "graphite:2003", c.GraphiteHost)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "COLLABORATOR_BINARY=/usr/local/bin/scheduler\n")
	t.Cleanup(func() { os.Unsetenv("COLLABORATOR_BINARY") })

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/scheduler", c.Collaborator.Binary)
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	t.Setenv("COLLABORATOR_KIND", "grpc")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "port: [\n")
	_, err := Load(dir)
	assert.Error(t, err)
}
