// Package config handles publist configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in a YAML file.
type Config struct {
	// PublicationsSrc is the path to the BibTeX file. Empty disables
	// the publications feature entirely.
	PublicationsSrc string `yaml:"publications_src,omitempty"`
	// AssetRoot is the base directory for resolving relative pdf,
	// slides, and poster links during checks.
	AssetRoot string `yaml:"asset_root,omitempty"`
	// ContextKey overrides the default "publications" context key.
	ContextKey string `yaml:"context_key,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "publist"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// EnvConfigPath overrides the config file location when set.
	EnvConfigPath = "PUBLIST_CONFIG"
	// EnvPublicationsSrc overrides publications_src when set.
	EnvPublicationsSrc = "PUBLIST_SRC"
)

// DefaultPath returns the config file location: $PUBLIST_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/publist/config.yml (with the usual
// ~/.config fallback). Returns "" if no home directory is available.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return ExpandTilde(path)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads configuration from the given path. A missing file is not
// an error: the feature is simply unconfigured.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.PublicationsSrc = ExpandTilde(cfg.PublicationsSrc)
	cfg.AssetRoot = ExpandTilde(cfg.AssetRoot)
	return &cfg, nil
}

// Save writes configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
