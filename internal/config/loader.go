package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "SECOPS_CONFIG"

// Defaults applied to any field the file leaves empty.
const (
	DefaultReportsDir = "reports"
	DefaultModelsDir  = "models"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{ReportsDir: DefaultReportsDir, ModelsDir: DefaultModelsDir}
}

// DefaultPath returns $SECOPS_CONFIG when set, otherwise
// ~/.config/secops/config.yaml. It returns "" when the home directory cannot
// be resolved.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "secops", "config.yaml")
}

// FileLoader reads Config from a YAML file.
type FileLoader struct {
	path string
}

// NewFileLoader returns a loader for path. An empty path means DefaultPath.
func NewFileLoader(path string) *FileLoader {
	if path == "" {
		path = DefaultPath()
	}
	return &FileLoader{path: path}
}

// ConfigPath returns the file the loader reads.
func (l *FileLoader) ConfigPath() string { return l.path }

// Load parses the file and fills defaults. A missing file is not an error;
// Default() is returned instead.
func (l *FileLoader) Load() (*Config, error) {
	if l.path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = DefaultReportsDir
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = DefaultModelsDir
	}
	if t := cfg.Upload.Target; t != "" && !strings.HasPrefix(t, "s3://") {
		return nil, fmt.Errorf("config %s: upload.target %q must be an s3:// URI", l.path, t)
	}
	return &cfg, nil
}
