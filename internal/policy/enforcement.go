package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// failRank returns the rank a finding must reach to break the build for tool.
// Zero means the tool has no usable enforcement block.
func failRank(tool string, cfg *PolicyConfig) int {
	if cfg == nil {
		return 0
	}
	sev := strings.ToUpper(cfg.Enforcement[tool].FailOnSeverity)
	return severityRank[models.Severity(sev)]
}

// Breaches returns the findings whose severity is at or above the tool's
// fail_on_severity, in input order. It returns nil when no policy is loaded,
// the tool has no enforcement block, or the configured severity is unknown.
func Breaches(tool string, findings []models.Finding, cfg *PolicyConfig) []models.Finding {
	floor := failRank(tool, cfg)
	if floor == 0 {
		return nil
	}
	var out []models.Finding
	for _, f := range findings {
		if severityRank[f.Severity] >= floor {
			out = append(out, f)
		}
	}
	return out
}
