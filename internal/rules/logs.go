package rules

import (
	"fmt"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/logstats"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
)

// DefaultMinFailures is the min_failures threshold used when no policy sets one.
const DefaultMinFailures = 5

// LogFailedLoginBurstRule flags source IPs with more failed_login events
// than the min_failures threshold (default 5, exclusive).
type LogFailedLoginBurstRule struct{}

func (r LogFailedLoginBurstRule) ID() string   { return "LOG_FAILED_LOGIN_BURST" }
func (r LogFailedLoginBurstRule) Name() string { return "Repeated Failed Logins From One Source" }

// Evaluate returns one HIGH finding per offending IP, ordered by IP.
func (r LogFailedLoginBurstRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Logs == nil {
		return nil
	}
	minFailures := policy.GetIntThreshold(r.ID(), "min_failures", DefaultMinFailures, ctx.Policy)

	var findings []models.Finding
	for _, f := range logstats.TopFailures(logstats.FailuresByIP(ctx.Logs.Events), minFailures) {
		findings = append(findings, models.Finding{
			ID:             fmt.Sprintf("%s-%s", r.ID(), f.SourceIP),
			RuleID:         r.ID(),
			Tool:           ctx.Tool,
			ResourceID:     f.SourceIP,
			ResourceType:   models.ResourceSourceIP,
			Source:         ctx.Logs.Path,
			Category:       "FailedLoginBurst",
			Detail:         fmt.Sprintf("%d failed logins", f.Count),
			Severity:       models.SeverityHigh,
			Explanation:    fmt.Sprintf("Source %s produced %d failed_login events (threshold %d).", f.SourceIP, f.Count, minFailures),
			Recommendation: "Investigate the source for credential stuffing and consider blocking or rate limiting it.",
			DetectedAt:     time.Now().UTC(),
			Metadata: map[string]any{
				"fail_count": f.Count,
			},
		})
	}
	return findings
}
