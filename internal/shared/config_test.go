package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 0, cfg.Workers)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 0.25, cfg.Rules.DisabledRatio)
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
db_path: /tmp/custom.db
log_level: debug
workers: 3
rules:
  disabled_ratio: 0.5
  duplicate_threshold: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0.5, cfg.Rules.DisabledRatio)
	assert.Equal(t, 4, cfg.Rules.DuplicateThreshold)
	// Untouched thresholds keep their defaults.
	assert.Equal(t, 50.0, cfg.Rules.MaxCompRatio)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ALSDIAG_DB_PATH", "/tmp/env.db")
	t.Setenv("ALSDIAG_LOG_FORMAT", "json")
	t.Setenv("ALSDIAG_WORKERS", "6")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 6, cfg.Workers)
}

func TestLoadConfigBadWorkersEnv(t *testing.T) {
	t.Setenv("ALSDIAG_WORKERS", "lots")

	_, err := LoadConfig("")
	require.Error(t, err)
}
