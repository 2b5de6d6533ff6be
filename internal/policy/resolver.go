package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// ApplyPolicy filters and rewrites findings of one tool according to cfg.
// The input order is preserved. Order of application:
//  1. tool disabled → no findings
//  2. rule disabled → finding dropped
//  3. rule severity override
//  4. tool min_severity filter (on the overridden severity)
func ApplyPolicy(findings []models.Finding, tool string, cfg *PolicyConfig) []models.Finding {
	if cfg == nil {
		return findings
	}

	toolCfg, hasTool := cfg.Tools[tool]
	if hasTool && toolCfg.Enabled != nil && !*toolCfg.Enabled {
		return []models.Finding{}
	}

	minRank := 0
	if hasTool && toolCfg.MinSeverity != "" {
		// Unknown values leave minRank at 0, i.e. no filtering.
		minRank = severityRank[models.Severity(strings.ToUpper(toolCfg.MinSeverity))]
	}

	result := make([]models.Finding, 0, len(findings))
	for _, f := range findings {
		ruleCfg, hasRule := cfg.Rules[f.RuleID]

		if hasRule && ruleCfg.Enabled != nil && !*ruleCfg.Enabled {
			continue
		}

		if hasRule && ruleCfg.Severity != "" {
			f.Severity = models.Severity(strings.ToUpper(ruleCfg.Severity))
		}

		if minRank > 0 && severityRank[f.Severity] < minRank {
			continue
		}

		result = append(result, f)
	}

	return result
}

// RuleEnabled reports whether ruleID is enabled by cfg. Rules are enabled
// unless explicitly disabled.
func RuleEnabled(ruleID string, cfg *PolicyConfig) bool {
	if cfg == nil {
		return true
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}
