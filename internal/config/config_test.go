package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TashaD16/TaskManager/internal/logger"
)

var envKeys = []string{
	"PORT", "CORS_ORIGINS", "SHUTDOWN_TIMEOUT", "STORAGE_DRIVER",
	"TASKS_FILE", "SQLITE_PATH", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN",
}

func clearEnv(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "tasks.json", cfg.StoragePath())
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[server]
port = 8080
cors_origins = ["http://localhost:5173"]
shutdown_timeout = "5s"

[storage]
driver = "SQLite"
sqlite_path = "/var/lib/tasks.db"

[log]
level = "debug"

[telegram]
token = "abc"
debug = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/tasks.db", cfg.StoragePath())
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "abc", cfg.Telegram.Token)
	assert.True(t, cfg.Telegram.Debug)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[server]\nport = 8080\n")

	t.Setenv("PORT", "9090")
	t.Setenv("TASKS_FILE", "/tmp/other.json")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/other.json", cfg.StoragePath())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, logger.LevelWarn, cfg.LogLevel())
	assert.Equal(t, "token", cfg.Telegram.Token)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		file        string
		errContains string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, errContains: "invalid server port"},
		{name: "port not a number", env: map[string]string{"PORT": "abc"}, errContains: "invalid PORT"},
		{name: "bad duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}, errContains: "invalid SHUTDOWN_TIMEOUT"},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "redis"}, errContains: "invalid storage driver"},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, errContains: "invalid log level"},
		{name: "empty sqlite path", file: "[storage]\ndriver = \"sqlite\"\nsqlite_path = \"\"\n", errContains: "sqlite path"},
		{name: "broken toml", file: "[server\n", errContains: "read config"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeConfig(t, tc.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			require.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
