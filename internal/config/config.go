// Package config loads optional defaults from a YAML file. Environment
// variables and command-line flags always win; the file only fills in values
// nothing else supplied.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the file-supplied defaults. Budget overrides are kept as
// strings so the resolvers apply the same validation regardless of where a
// value came from.
type Config struct {
	// RAM is a default memory budget in MB for the CodeQL CLI.
	RAM string `yaml:"ram"`

	// Threads is a default thread count for the CodeQL CLI.
	Threads string `yaml:"threads"`

	// ReservedRAMScalePercentage tunes the scaled memory reservation.
	ReservedRAMScalePercentage string `yaml:"reserved_ram_scale_percentage"`

	// GitHubServerURL is the GitHub server the pipeline talks to.
	GitHubServerURL string `yaml:"github_server_url"`
}

// DefaultPath returns the conventional location of the defaults file.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".codeql-action", "config.yaml")
}

// Load reads the defaults file at path. A missing file is not an error: the
// zero Config simply means no defaults.
func Load(logger *logrus.Logger, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("No defaults file at %s", path)
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read defaults file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return cfg, nil
}
