package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level posbook.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig locates the durable state.
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

// ExportConfig controls where reports are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls logging verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a posbook.yaml file from disk, then applies POSBOOK_*
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(dataDir, "pos_data.db"),
		},
		Export: ExportConfig{
			Dir: filepath.Join(dataDir, "exports"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("POSBOOK_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("POSBOOK_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("POSBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
