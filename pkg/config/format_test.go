package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/config"
)

func TestDetectFileFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want config.FileFormat
	}{
		{".gofmtchanged.yml", config.FileFormatYAML},
		{".gofmtchanged.yaml", config.FileFormatYAML},
		{".gofmtchanged.toml", config.FileFormatTOML},
		{"/etc/gofmtchanged/CONFIG.TOML", config.FileFormatTOML},
		{"config", config.FileFormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, config.DetectFileFormat(tt.path))
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, format := range []config.FileFormat{config.FileFormatYAML, config.FileFormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			minimal, err := config.GenerateTemplate(config.TemplateOptions{Format: format})
			require.NoError(t, err)

			cfg, err := config.Decode(format, minimal)
			require.NoError(t, err)
			assert.Equal(t, "gofmt", cfg.Formatter)

			full, err := config.GenerateTemplate(config.TemplateOptions{Format: format, Full: true})
			require.NoError(t, err)
			assert.Contains(t, string(full), "# gofmtchanged configuration")

			cfg, err = config.Decode(format, full)
			require.NoError(t, err)
			assert.Equal(t, config.NewConfig(), cfg)
		})
	}

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}

func TestBackupsEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, config.NewConfig().BackupsEnabled())
	assert.False(t, (&config.Config{}).BackupsEnabled())
	assert.False(t, (&config.Config{Backups: config.BackupsConfig{Enabled: boolPtr(false)}}).BackupsEnabled())
	assert.True(t, (&config.Config{Backups: config.BackupsConfig{Enabled: boolPtr(true)}}).BackupsEnabled())
	assert.False(t, (&config.Config{NoBackups: true, Backups: config.BackupsConfig{Enabled: boolPtr(true)}}).BackupsEnabled())

	var nilCfg *config.Config
	assert.False(t, nilCfg.BackupsEnabled())
}
