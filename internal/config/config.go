package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultDatabasePath = "calibtrack.db"
	DefaultSigFigs      = 3
	MaxSigFigs          = 4
)

// Config is the top-level configuration. Fields map 1:1 to config.yaml.
type Config struct {
	// DatabasePath is the filesystem path for the SQLite database file.
	DatabasePath string `yaml:"database_path"`

	// DefaultSigFigs is the display precision used when a template field
	// leaves sig_figs unset.
	DefaultSigFigs int `yaml:"default_sig_figs"`

	// Audit configures evaluation audit logging.
	Audit AuditConfig `yaml:"audit"`
}

// AuditConfig holds audit-log settings.
type AuditConfig struct {
	// Enabled turns evaluation audit-log writes on.
	Enabled bool `yaml:"enabled"`

	// Actor is recorded on audit rows written by this process.
	Actor string `yaml:"actor"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		DatabasePath:   DefaultDatabasePath,
		DefaultSigFigs: DefaultSigFigs,
		Audit:          AuditConfig{Enabled: true},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if cfg.DefaultSigFigs < 1 || cfg.DefaultSigFigs > MaxSigFigs {
		return fmt.Errorf("default_sig_figs must be between 1 and %d", MaxSigFigs)
	}
	return nil
}
