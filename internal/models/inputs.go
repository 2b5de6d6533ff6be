package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ── IAM ──────────────────────────────────────────────────────────────────────

// StringList is an IAM policy field that may be written either as a single
// string or as a list of strings.
type StringList []string

// UnmarshalJSON accepts "value" or ["a", "b"]. Anything else is an error.
func (s *StringList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = many
	return nil
}

// PolicyStatement is one element of an IAM policy's Statement list.
type PolicyStatement struct {
	Sid         string     `json:"Sid,omitempty"`
	Effect      string     `json:"Effect,omitempty"`
	Action      StringList `json:"Action,omitempty"`
	NotAction   StringList `json:"NotAction,omitempty"`
	Resource    StringList `json:"Resource,omitempty"`
	NotResource StringList `json:"NotResource,omitempty"`
}

// StatementList is the Statement field of a policy document. AWS accepts a
// single statement object in place of a list.
type StatementList []PolicyStatement

// UnmarshalJSON accepts a statement object or a list of statement objects.
func (s *StatementList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one PolicyStatement
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*s = StatementList{one}
		return nil
	}
	var many []PolicyStatement
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// PolicyDocument is a parsed IAM policy.
type PolicyDocument struct {
	// Source identifies where the document came from: a file path, a
	// Terraform block reference or a managed policy ARN.
	Source string `json:"-"`

	// Qualified is true when findings must carry Source in their location
	// (documents that are one of many in a single input).
	Qualified bool `json:"-"`

	Version   string        `json:"Version,omitempty"`
	Statement StatementList `json:"Statement"`
}

// ── Hardening ────────────────────────────────────────────────────────────────

// ConfigFile is the raw text of a configuration file.
type ConfigFile struct {
	Path    string
	Content string
}

// HostConfig holds the two configuration files inspected by the hardening
// checker.
type HostConfig struct {
	Sysctl ConfigFile
	SSHD   ConfigFile
}

// ── Web ──────────────────────────────────────────────────────────────────────

// WebFileKind is the dispatch class of a scanned web asset.
type WebFileKind string

const (
	WebFileHTML WebFileKind = "html"
	WebFileJS   WebFileKind = "js"
)

// WebFile is a single HTML or JavaScript file read for scanning.
type WebFile struct {
	Path    string
	Kind    WebFileKind
	Content string
}

// ── Logs ─────────────────────────────────────────────────────────────────────

// LogEvent is one row of a network event log.
type LogEvent struct {
	Timestamp time.Time
	SourceIP  string
	Event     string
}

// LogData is the full event log of one input file.
type LogData struct {
	Path   string
	Events []LogEvent
}

// IPCount pairs a source IP with an event count.
type IPCount struct {
	SourceIP string
	Count    int
}

// ── Telemetry ────────────────────────────────────────────────────────────────

// TelemetryFeatures are the numeric columns the anomaly model is fitted on,
// in model order.
var TelemetryFeatures = []string{"cpu", "mem", "net_in", "net_out"}

// TelemetryData is a telemetry table together with the anomaly model's
// predictions for each row.
type TelemetryData struct {
	Source string

	// Header and Records hold the table as read, so flagged rows can be
	// written back verbatim.
	Header  []string
	Records [][]string

	// Features holds one vector per record in TelemetryFeatures order.
	Features [][]float64

	// Scores and Anomalous are filled by the detector; both have one entry
	// per record.
	Scores    []float64
	Anomalous []bool
}

// IAMStatementRef is one statement of a policy document together with its
// position, the unit the IAM rules evaluate.
type IAMStatementRef struct {
	Source    string
	Qualified bool
	Index     int
	Statement PolicyStatement
}

// Statements expands doc into one IAMStatementRef per statement, in order.
func (doc *PolicyDocument) Statements() []IAMStatementRef {
	refs := make([]IAMStatementRef, 0, len(doc.Statement))
	for i, st := range doc.Statement {
		refs = append(refs, IAMStatementRef{
			Source:    doc.Source,
			Qualified: doc.Qualified,
			Index:     i,
			Statement: st,
		})
	}
	return refs
}
