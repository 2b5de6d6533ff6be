package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

// Tool names, as used in reports and in the tools/enforcement sections of
// the policy file.
const (
	ToolAnomaly   = "anomaly"
	ToolIAM       = "iam"
	ToolHardening = "hardening"
	ToolLogs      = "logs"
	ToolWeb       = "web"
)

// ReportFormat controls how the CLI prints a report to stdout.
type ReportFormat string

const (
	ReportFormatText  ReportFormat = "text"
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// Collector loads the input of one tool run and splits it into the units
// rules evaluate.
type Collector interface {
	// Collect reads every input and returns one RuleContext per unit, in
	// input order. Any load error aborts the run.
	Collect(ctx context.Context) ([]rules.RuleContext, error)

	// Inputs describes what was read (paths, policy ARNs, metric sources).
	Inputs() []string
}

// AuditOptions configures a single audit run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// Tool is the name stamped on the report and its findings.
	Tool string

	// Collector supplies the rule contexts.
	Collector Collector

	// Policy is the loaded policy file. Nil means defaults everywhere.
	Policy *policy.PolicyConfig
}

// Engine is the central orchestration interface. It runs a collector, drives
// rule evaluation and applies policy, returning a fully populated report.
//
// Engine never writes files; artifacts are the caller's concern.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error)
}
