package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "peerexam.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "peerexam.yaml", `
database:
  driver: pgx
  dsn: postgres://localhost/peerexam
  max_open_conns: 4
log:
  level: debug
  format: json
metrics:
  enabled: true
`)

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, DatabaseConfig{Driver: "pgx", DSN: "postgres://localhost/peerexam", MaxOpenConns: 4}, cfg.Database)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "peerexam.yaml", "database:\n  dsn: from-file.db\n")
	t.Setenv("PEEREXAM_DATABASE_DSN", "from-env.db")

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.DSN)
}

func TestLoad_EnvFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "PEEREXAM_LOG_LEVEL=warn\n")
	// godotenv sets the variable for the process; clear it afterwards.
	t.Setenv("PEEREXAM_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("PEEREXAM_LOG_LEVEL"))

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("PEEREXAM_DATABASE_DSN", "from-env.db")

	cfg, err := Load(Options{Overrides: map[string]any{
		"database.dsn":    "from-flag.db",
		"database.driver": "sqlite",
	}})
	require.NoError(t, err)
	assert.Equal(t, "from-flag.db", cfg.Database.DSN)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"driver":    {"database.driver": "mysql"},
		"empty dsn": {"database.dsn": ""},
		"log level": {"log.level": "loud"},
		"format":    {"log.format": "xml"},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(Options{Overrides: overrides})
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{}.SlogLevel())
}
