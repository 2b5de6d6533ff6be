package policy

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"

// PolicyConfig is the parsed form of secops.yaml. Every section is optional;
// a nil *PolicyConfig means "no policy loaded" everywhere in this package.
type PolicyConfig struct {
	Version     int                          `yaml:"version"`
	Tools       map[string]ToolConfig        `yaml:"tools"`
	Rules       map[string]RuleConfig        `yaml:"rules"`
	Enforcement map[string]EnforcementConfig `yaml:"enforcement"`
}

// ToolConfig controls all findings produced by one tool.
type ToolConfig struct {
	// Enabled disables every finding of the tool when explicitly false.
	Enabled *bool `yaml:"enabled,omitempty"`

	// MinSeverity drops findings ranked below it. Empty means no filter.
	MinSeverity string `yaml:"min_severity,omitempty"`

	// Params tunes the tool itself rather than one of its rules
	// (e.g. logs.top_n, anomaly.contamination).
	Params map[string]float64 `yaml:"params,omitempty"`
}

// RuleConfig overrides a single rule.
type RuleConfig struct {
	Enabled  *bool              `yaml:"enabled,omitempty"`
	Severity string             `yaml:"severity,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
}

// EnforcementConfig makes a tool run fail when findings reach a severity.
type EnforcementConfig struct {
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}

// severityRank orders severities for threshold comparisons (higher = worse).
var severityRank = map[models.Severity]int{
	models.SeverityCritical: 5,
	models.SeverityHigh:     4,
	models.SeverityMedium:   3,
	models.SeverityLow:      2,
	models.SeverityInfo:     1,
}
