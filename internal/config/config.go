package config

// Config is the top-level application configuration shared by every tool.
// It is loaded from $SECOPS_CONFIG or ~/.config/secops/config.yaml.
// Command-line flags always take precedence over these values.
type Config struct {
	// ReportsDir is where text, CSV and chart reports are written.
	ReportsDir string `yaml:"reports_dir" json:"reports_dir"`

	// ModelsDir is where the anomaly detector saves its fitted model.
	ModelsDir string `yaml:"models_dir" json:"models_dir"`

	AWS    AWSConfig    `yaml:"aws"    json:"aws"`
	Upload UploadConfig `yaml:"upload" json:"upload"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// DefaultRegion is used when no region flag or profile region is set.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// DefaultProfile is used when no --profile flag is provided.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`
}

// UploadConfig configures artifact upload.
type UploadConfig struct {
	// Target is an s3://bucket/prefix URI. Empty disables upload unless
	// --upload is given.
	Target string `yaml:"target" json:"target"`
}

// Loader is the interface for reading Config from disk.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}
