package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/tree"
)

// DeletePolicy selects what the editor's default delete does with the
// children of a folder
type DeletePolicy string

const (
	// DeleteDiscard removes the folder with all of its descendants
	DeleteDiscard DeletePolicy = "discard"
	// DeleteReparent moves the folder's children to the top level
	DeleteReparent DeletePolicy = "reparent"
)

// Config holds application configuration
type Config struct {
	DBPath        string       `toml:"db_path"`
	ContainerName string       `toml:"container_name"`
	RootName      string       `toml:"root_name"`
	DeletePolicy  DeletePolicy `toml:"delete_policy"`
	DefaultDraft  string       `toml:"default_draft"`
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		DBPath:        getDefaultDBPath(),
		ContainerName: document.DefaultContainerName,
		RootName:      tree.DefaultRootName,
		DeletePolicy:  DeleteDiscard,
		DefaultDraft:  "default",
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.DeletePolicy {
	case DeleteDiscard, DeleteReparent:
	default:
		return fmt.Errorf("delete_policy must be %q or %q, got %q", DeleteDiscard, DeleteReparent, c.DeletePolicy)
	}
	if strings.TrimSpace(c.DefaultDraft) == "" {
		return errors.New("default_draft must not be empty")
	}
	return nil
}

// WithDBPath sets a custom database path
func (c *Config) WithDBPath(path string) *Config {
	c.DBPath = path
	return c
}

// DefaultPath returns the location of the config file
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(homeDir, ".favorites", "config.toml")
}

func getDefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "favorites.db"
	}
	return filepath.Join(homeDir, ".favorites", "favorites.db")
}
