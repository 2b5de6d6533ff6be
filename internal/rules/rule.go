package rules

import (
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
)

// RuleContext is one unit of collected input. Collectors set exactly one of
// the input pointers; a rule returns nothing for inputs it does not inspect.
// Rules never do I/O of their own.
type RuleContext struct {
	Tool string

	// Policy supplies threshold overrides. Nil means defaults.
	Policy *policy.PolicyConfig

	// IAMStatement is a single statement of an IAM policy document.
	IAMStatement *models.IAMStatementRef

	// Host holds the sysctl and sshd configuration texts.
	Host *models.HostConfig

	// WebFile is a single HTML or JavaScript file.
	WebFile *models.WebFile

	// Logs is a full network event log.
	Logs *models.LogData

	// Telemetry is a telemetry table with anomaly predictions filled in.
	Telemetry *models.TelemetryData
}

// Rule is one stateless, deterministic check. ID is stable across releases
// because policy files refer to it (e.g. "WEB_EVAL_USE").
type Rule interface {
	ID() string
	Name() string
	Evaluate(ctx RuleContext) []models.Finding
}

// RuleRegistry holds the rules of one tool in evaluation order.
type RuleRegistry interface {
	Register(rule Rule)
	All() []Rule
	EvaluateAll(ctx RuleContext) []models.Finding
}
