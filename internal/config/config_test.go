// ABOUTME: Tests for configuration loading and validation.
// ABOUTME: Covers defaults, YAML files, env overrides, and startup-fatal violations.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "samson.db", cfg.DatabasePath)
	assert.Equal(t, 1, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.PollDuration())
	assert.Equal(t, "0.0.0.0:3030", cfg.APIAddr())
	assert.Equal(t, "0.0.0.0:9090", cfg.MetricsAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("POLL_INTERVAL", "5")
	t.Setenv("API_PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.PollDuration())
	assert.Equal(t, "0.0.0.0:8080", cfg.APIAddr())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samson.yaml")
	content := `
database_path: /var/lib/samson/messages.db
poll_interval: 10
api_host: 127.0.0.1
api_port: 4040
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/samson/messages.db", cfg.DatabasePath)
	assert.Equal(t, 10, cfg.PollInterval)
	assert.Equal(t, "127.0.0.1:4040", cfg.APIAddr())
	// Untouched fields keep their defaults.
	assert.Equal(t, "0.0.0.0:9090", cfg.MetricsAddr())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: 10\n"), 0644))

	t.Setenv("POLL_INTERVAL", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PollInterval)
}

func TestLoad_ExpandsEnvInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: ${SAMSON_DATA}/messages.db\n"), 0644))

	t.Setenv("SAMSON_DATA", "/srv/samson")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/samson/messages.db", cfg.DatabasePath)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"zero", "0"},
		{"negative", "-1"},
		{"not a number", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POLL_INTERVAL", tt.value)

			_, err := Load("")
			assert.Error(t, err, "poll interval %q must be rejected at startup", tt.value)
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("API_PORT", "70000")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
