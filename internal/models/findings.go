package models

import "time"

// Severity represents the impact level of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// ResourceType identifies the kind of element a finding points at. It also
// decides how the finding's location is rendered in text reports.
type ResourceType string

const (
	ResourceIAMStatement  ResourceType = "IAM_STATEMENT"
	ResourceConfigSetting ResourceType = "CONFIG_SETTING"
	ResourceWebFile       ResourceType = "WEB_FILE"
	ResourceSourceIP      ResourceType = "SOURCE_IP"
	ResourceTelemetryRow  ResourceType = "TELEMETRY_ROW"
)

// Finding is a single flagged issue. It is the atomic output unit of the
// rule engine: a location (ResourceID), a category tag and a detail string,
// plus severity and presentation fields.
type Finding struct {
	ID           string       `json:"id"`
	RuleID       string       `json:"rule_id"`
	Tool         string       `json:"tool"`
	ResourceID   string       `json:"resource_id"`
	ResourceType ResourceType `json:"resource_type"`

	// Source is the input the finding was read from: a file path, a
	// Terraform block reference or a policy ARN.
	Source string `json:"source,omitempty"`

	// Category is the short tag of the finding kind, one of a small fixed
	// set per tool (e.g. "Overly permissive Action", "InlineScript").
	Category string `json:"category"`

	// Detail is the literal or human-readable detail string written to
	// the text report.
	Detail string `json:"detail"`

	Severity       Severity       `json:"severity"`
	Explanation    string         `json:"explanation"`
	Recommendation string         `json:"recommendation,omitempty"`
	DetectedAt     time.Time      `json:"detected_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// AuditSummary aggregates counts across all findings.
type AuditSummary struct {
	TotalFindings    int `json:"total_findings"`
	CriticalFindings int `json:"critical_findings"`
	HighFindings     int `json:"high_findings"`
	MediumFindings   int `json:"medium_findings"`
	LowFindings      int `json:"low_findings"`
	InfoFindings     int `json:"info_findings"`
}

// AuditReport is the top-level output of any tool run.
type AuditReport struct {
	ReportID    string       `json:"report_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Tool        string       `json:"tool"`
	Inputs      []string     `json:"inputs"`
	Summary     AuditSummary `json:"summary"`
	Findings    []Finding    `json:"findings"`

	// Artifacts lists every file the run wrote, in write order.
	Artifacts []string `json:"artifacts,omitempty"`

	// Metadata carries optional, tool-specific key/value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SetMeta records a tool-specific key/value pair on the report.
func (r *AuditReport) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
