package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envDBPath overrides the configured database path when set. A .env file in
// the working directory is honored as well.
const envDBPath = "SIMPLECRM_DB"

// Config holds user-level settings persisted between runs.
type Config struct {
	DBPath string `yaml:"db_path"`
}

// Load reads the config file if present and applies overrides.
// Resolution order: SIMPLECRM_DB environment variable, then the config
// file, then the default path under the user config directory.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	path, err := Path()
	if err == nil {
		data, readErr := os.ReadFile(path)
		if readErr == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if env := os.Getenv(envDBPath); env != "" {
		cfg.DBPath = env
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "simplecrm", "config.yaml"), nil
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// No home to speak of; fall back to the working directory.
		return "contacts.db"
	}
	return filepath.Join(dir, "simplecrm", "contacts.db")
}
