package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// s3WildcardARN matches every S3 bucket and object in every account.
const s3WildcardARN = "arn:aws:s3:::*"

// IAMWildcardActionRule flags statement actions that grant every action ("*")
// or every action of a service ("s3:*"). The statement Effect is not
// consulted: a wildcard in a Deny statement is still reported.
type IAMWildcardActionRule struct{}

func (r IAMWildcardActionRule) ID() string   { return "IAM_WILDCARD_ACTION" }
func (r IAMWildcardActionRule) Name() string { return "Overly Permissive IAM Action" }

// Evaluate returns one HIGH finding per wildcard action, in statement order.
func (r IAMWildcardActionRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.IAMStatement == nil {
		return nil
	}
	var findings []models.Finding
	for _, a := range ctx.IAMStatement.Statement.Action {
		if a != "*" && !strings.HasSuffix(a, ":*") {
			continue
		}
		findings = append(findings, iamFinding(r.ID(), ctx, "Overly permissive Action", a, models.SeverityHigh,
			fmt.Sprintf("Statement %d grants wildcard action %q.", ctx.IAMStatement.Index, a),
			"Replace wildcard actions with the specific API actions the principal needs."))
	}
	return findings
}

// IAMWildcardResourceRule flags statement resources that cover every
// resource ("*") or every S3 bucket and object ("arn:aws:s3:::*").
type IAMWildcardResourceRule struct{}

func (r IAMWildcardResourceRule) ID() string   { return "IAM_WILDCARD_RESOURCE" }
func (r IAMWildcardResourceRule) Name() string { return "Overly Permissive IAM Resource" }

// Evaluate returns one HIGH finding per wildcard resource, in statement order.
func (r IAMWildcardResourceRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.IAMStatement == nil {
		return nil
	}
	var findings []models.Finding
	for _, res := range ctx.IAMStatement.Statement.Resource {
		if res != "*" && res != s3WildcardARN {
			continue
		}
		findings = append(findings, iamFinding(r.ID(), ctx, "Overly permissive Resource", res, models.SeverityHigh,
			fmt.Sprintf("Statement %d applies to wildcard resource %q.", ctx.IAMStatement.Index, res),
			"Scope the statement to the ARNs of the resources actually accessed."))
	}
	return findings
}

func iamFinding(ruleID string, ctx RuleContext, category, detail string, sev models.Severity, explanation, recommendation string) models.Finding {
	ref := ctx.IAMStatement
	idx := strconv.Itoa(ref.Index)
	return models.Finding{
		ID:             fmt.Sprintf("%s-%s-%s-%s", ruleID, ref.Source, idx, detail),
		RuleID:         ruleID,
		Tool:           ctx.Tool,
		ResourceID:     idx,
		ResourceType:   models.ResourceIAMStatement,
		Source:         ref.Source,
		Category:       category,
		Detail:         detail,
		Severity:       sev,
		Explanation:    explanation,
		Recommendation: recommendation,
		DetectedAt:     time.Now().UTC(),
		Metadata: map[string]any{
			"statement_index": ref.Index,
			"qualified":       ref.Qualified,
			"effect":          ref.Statement.Effect,
			"sid":             ref.Statement.Sid,
		},
	}
}
