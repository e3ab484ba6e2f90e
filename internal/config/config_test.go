package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Equal(t, 5005, config.Server.Port)
	assert.Equal(t, 30*time.Second, config.Server.Timeout)
	assert.Equal(t, DatabaseMemory, config.Database.Type)
	assert.Equal(t, 4096, config.Database.CacheSize)
	assert.Equal(t, "info", config.Log.Level)
	assert.True(t, config.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:5005", config.Server.Address())
	assert.Equal(t, "http://127.0.0.1:5005", config.Server.URL())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	mainConfigContent := `
[server]
bind = "0.0.0.0"
port = 6006
timeout = "5s"

[database]
type = "pebble"
path = "data"
cache_size = 128

[log]
level = "debug"
format = "json"

[metrics]
enabled = false
`
	mainConfigPath := filepath.Join(tempDir, "oracled.toml")
	require.NoError(t, os.WriteFile(mainConfigPath, []byte(mainConfigContent), 0644))

	config, err := LoadConfig(mainConfigPath)
	require.NoError(t, err)

	assert.Equal(t, 6006, config.Server.Port)
	assert.Equal(t, 5*time.Second, config.Server.Timeout)
	assert.Equal(t, "http://127.0.0.1:6006", config.Server.URL())
	assert.Equal(t, DatabasePebble, config.Database.Type)
	assert.Equal(t, 128, config.Database.CacheSize)
	assert.Equal(t, filepath.Join(tempDir, "data"), config.DatabasePath())
	assert.Equal(t, "json", config.Log.Format)
	assert.False(t, config.Metrics.Enabled)
	assert.Equal(t, mainConfigPath, config.ConfigPath())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ORACLED_SERVER_PORT", "7007")
	t.Setenv("ORACLED_LOG_LEVEL", "warn")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7007, config.Server.Port)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{"bad database type", "[database]\ntype = \"nudb\"\n"},
		{"pebble without path", "[database]\ntype = \"pebble\"\npath = \"\"\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"bad log level", "[log]\nlevel = \"chatty\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "oracled.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
