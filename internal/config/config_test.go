package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystat/internal/errors"
)

func TestDefaults(t *testing.T) {
	c := Default()

	assert.Equal(t, "8050", c.Server.Port)
	assert.Equal(t, 20, c.Server.MaxUploadMB)
	assert.True(t, c.Loader.Alpha.HasHeader)
	assert.True(t, c.Loader.Alpha.PackedFirstColumn)
	assert.Equal(t, ";", c.Loader.Alpha.PackedDelimiter)
	assert.Equal(t, ",", c.Loader.Alpha.SourceDelimiter)
	assert.Equal(t, ";", c.Loader.Normality.Delimiter)
	assert.Equal(t, 2, c.Loader.Normality.TrailingMetadataColumns)
	assert.InDelta(t, 0.05, c.Analysis.SignificanceLevel, 1e-12)
	assert.NoError(t, c.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SURVEYSTAT_LOADER_NORMALITY_TRAILING_METADATA_COLUMNS", "0")
	t.Setenv("SURVEYSTAT_ANALYSIS_SIGNIFICANCE_LEVEL", "0.01")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9999", c.Server.Port)
	assert.Equal(t, 0, c.Loader.Normality.TrailingMetadataColumns)
	assert.InDelta(t, 0.01, c.Analysis.SignificanceLevel, 1e-12)
	assert.Equal(t, "DEBUG", c.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "surveystat.yaml")
	content := `
loader:
  alpha:
    packed_first_column: false
    source_delimiter: ";"
  normality:
    trailing_metadata_columns: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.Loader.Alpha.PackedFirstColumn)
	assert.Equal(t, ';', Rune(c.Loader.Alpha.SourceDelimiter))
	assert.Equal(t, 1, c.Loader.Normality.TrailingMetadataColumns)
	// untouched keys keep their defaults
	assert.True(t, c.Loader.Alpha.HasHeader)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"multi-char delimiter", func(c *Config) { c.Loader.Normality.Delimiter = ";;" }},
		{"empty delimiter", func(c *Config) { c.Loader.Alpha.PackedDelimiter = "" }},
		{"significance of one", func(c *Config) { c.Analysis.SignificanceLevel = 1 }},
		{"negative metadata columns", func(c *Config) { c.Loader.Normality.TrailingMetadataColumns = -1 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"no chart workers", func(c *Config) { c.Server.ChartWorkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
