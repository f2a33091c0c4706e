package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./performancepro.db", cfg.Database.Path)
	assert.Equal(t, "USD", cfg.Defaults.Currency)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database.path is required"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad report format", func(c *Config) { c.Report.Format = "pdf" }, "report.format"},
		{"bad currency", func(c *Config) { c.Defaults.Currency = "US" }, "defaults.currency"},
		{"empty log level ok", func(c *Config) { c.Log.Level = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := Default()
			cfg.Database.Path = "/var/lib/perfpro/ledger.db"
			cfg.Report.Format = "org"
			cfg.Defaults.Market = "CME Globex"
			path := filepath.Join(tmpDir, "perfpro"+ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfig))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  format: pdf\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.format")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/override.db")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvCurrency, "eur")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "EUR", cfg.Defaults.Currency)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "perfpro-config", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"database", "log", "report", "defaults"} {
		assert.Contains(t, props, key)
	}

	s := string(data)
	assert.Contains(t, s, `"org"`)
	assert.Contains(t, s, `"text"`)
	assert.Contains(t, s, `"maxLength": 3`)
}
