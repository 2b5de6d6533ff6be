package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the policy file picked up from the working directory when
// no explicit path is given.
const DefaultPath = "./secops.yaml"

// LoadPolicy parses the policy file at path. Unknown keys are rejected and
// only version 1 is accepted. Absent sections come back as empty maps.
func LoadPolicy(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := PolicyConfig{
		Tools:       map[string]ToolConfig{},
		Rules:       map[string]RuleConfig{},
		Enforcement: map[string]EnforcementConfig{},
	}
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("policy %s: unsupported version %d", path, cfg.Version)
	}
	return &cfg, nil
}

// LoadOptional loads path when it is set. With an empty path it loads
// DefaultPath if that file exists and returns (nil, nil) otherwise.
func LoadOptional(path string) (*PolicyConfig, error) {
	if path != "" {
		return LoadPolicy(path)
	}
	cfg, err := LoadPolicy(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return cfg, err
}
