package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ",", cfg.CSV.Separator)
	assert.Equal(t, 95.0, cfg.Quality.CompletenessThreshold)
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: text
csv:
  separator: ";"
  na_values: ["N/A", "-"]
quality:
  completeness_threshold: 80
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, ";", cfg.CSV.Separator)
	assert.Equal(t, []string{"N/A", "-"}, cfg.CSV.NAValues)
	assert.Equal(t, 80.0, cfg.Quality.CompletenessThreshold)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Output)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	t.Setenv("TABULAR_LOGGING_LEVEL", "warn")
	t.Setenv("TABULAR_QUALITY_COMPLETENESS_THRESHOLD", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 50.0, cfg.Quality.CompletenessThreshold)
}

func TestLoadValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadBadThreshold(t *testing.T) {
	t.Setenv("TABULAR_QUALITY_COMPLETENESS_THRESHOLD", "150")
	_, err := Load("")
	require.Error(t, err)
}

func TestSeparatorRune(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ',', cfg.SeparatorRune())

	cfg.CSV.Separator = ""
	assert.Equal(t, rune(0), cfg.SeparatorRune())

	cfg.CSV.Separator = ";"
	assert.Equal(t, ';', cfg.SeparatorRune())
}
