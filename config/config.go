package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvDBPath   = "PERFPRO_DB_PATH"
	EnvLogLevel = "PERFPRO_LOG_LEVEL"
	EnvCurrency = "PERFPRO_CURRENCY"
)

// Config is the tracker's configuration.
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults"`
}

type DatabaseConfig struct {
	Path string `json:"path" yaml:"path" jsonschema:"required,description=SQLite database file"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// ReportConfig controls rendered reports.
type ReportConfig struct {
	Format string `json:"format" yaml:"format" jsonschema:"required,enum=org,enum=text"`
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty" jsonschema:"description=Directory for relative report and export paths"`
}

// DefaultsConfig fills in data-entry fields left blank.
type DefaultsConfig struct {
	Currency string `json:"currency" yaml:"currency" jsonschema:"required,minLength=3,maxLength=3"`
	Market   string `json:"market,omitempty" yaml:"market,omitempty"`
}

// LoadFromFile reads a YAML or JSON config, applies environment overrides
// and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "read config file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, "parse config (tried YAML and JSON)", jerr)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "invalid config", err)
	}
	return cfg, nil
}

// Load is LoadFromFile when path is set, otherwise the defaults with
// environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "invalid config", err)
	}
	return cfg, nil
}

// ApplyEnv loads a .env file from the working directory when present, then
// lets PERFPRO_* variables override the file values.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		c.Defaults.Currency = strings.ToUpper(v)
	}
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Report.Format != "org" && c.Report.Format != "text" {
		return fmt.Errorf("report.format must be 'org' or 'text'")
	}
	if len(c.Defaults.Currency) != 3 {
		return fmt.Errorf("defaults.currency must be a 3 letter code")
	}
	return nil
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./performancepro.db"},
		Log:      LogConfig{Level: "info"},
		Report:   ReportConfig{Format: "text"},
		Defaults: DefaultsConfig{Currency: "USD"},
	}
}

// Schema returns the JSON Schema describing a config file, for editors and
// linters.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
	}
	schema := r.Reflect(&Config{})
	schema.Title = "perfpro-config"
	schema.Description = "Configuration file for perfpro"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "marshal config schema", err)
	}
	return data, nil
}
