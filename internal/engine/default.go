package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

// DefaultEngine implements Engine for every tool. The rule pack decides what
// is checked; the collector decides what is read.
type DefaultEngine struct {
	registry rules.RuleRegistry
	logger   *zap.SugaredLogger
}

// NewDefaultEngine wires registry and logger. A nil logger discards output.
func NewDefaultEngine(registry rules.RuleRegistry, logger *zap.SugaredLogger) *DefaultEngine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DefaultEngine{registry: registry, logger: logger}
}

// RunAudit collects the input, evaluates every rule against each unit in
// collection order and applies opts.Policy to the combined findings. Finding
// order is production order: unit by unit, rule by rule.
func (e *DefaultEngine) RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error) {
	if opts.Collector == nil {
		return nil, errors.New("audit has no collector")
	}

	units, err := opts.Collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("collected input", "tool", opts.Tool, "units", len(units))

	var findings []models.Finding
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		unit.Tool = opts.Tool
		unit.Policy = opts.Policy
		findings = append(findings, e.registry.EvaluateAll(unit)...)
	}

	raw := len(findings)
	findings = policy.ApplyPolicy(findings, opts.Tool, opts.Policy)
	if dropped := raw - len(findings); dropped > 0 {
		e.logger.Debugw("policy filtered findings", "tool", opts.Tool, "dropped", dropped)
	}

	return buildReport(opts.Tool, opts.Collector.Inputs(), findings), nil
}

func buildReport(tool string, inputs []string, findings []models.Finding) *models.AuditReport {
	if findings == nil {
		findings = []models.Finding{}
	}
	return &models.AuditReport{
		ReportID:    fmt.Sprintf("%s-%d", tool, time.Now().UnixNano()),
		GeneratedAt: time.Now().UTC(),
		Tool:        tool,
		Inputs:      inputs,
		Summary:     computeSummary(findings),
		Findings:    findings,
	}
}

func computeSummary(findings []models.Finding) models.AuditSummary {
	var s models.AuditSummary
	s.TotalFindings = len(findings)
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityCritical:
			s.CriticalFindings++
		case models.SeverityHigh:
			s.HighFindings++
		case models.SeverityMedium:
			s.MediumFindings++
		case models.SeverityLow:
			s.LowFindings++
		case models.SeverityInfo:
			s.InfoFindings++
		}
	}
	return s
}
