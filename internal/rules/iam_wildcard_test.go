package rules

import (
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

func stmtCtx(idx int, st models.PolicyStatement) RuleContext {
	return RuleContext{
		Tool: "iam",
		IAMStatement: &models.IAMStatementRef{
			Source:    "policy.json",
			Index:     idx,
			Statement: st,
		},
	}
}

func TestIAMWildcardActionRule_ID(t *testing.T) {
	if (IAMWildcardActionRule{}).ID() != "IAM_WILDCARD_ACTION" {
		t.Error("unexpected rule ID")
	}
}

func TestIAMWildcardActionRule_NilStatement(t *testing.T) {
	if findings := (IAMWildcardActionRule{}).Evaluate(RuleContext{}); findings != nil {
		t.Errorf("want nil with nil IAMStatement, got %v", findings)
	}
}

func TestIAMWildcardActionRule_Star(t *testing.T) {
	findings := IAMWildcardActionRule{}.Evaluate(stmtCtx(2, models.PolicyStatement{
		Effect: "Allow",
		Action: models.StringList{"*"},
	}))
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Category != "Overly permissive Action" {
		t.Errorf("category: got %q", f.Category)
	}
	if f.ResourceID != "2" {
		t.Errorf("resource_id: got %q; want 2", f.ResourceID)
	}
	if f.Detail != "*" {
		t.Errorf("detail: got %q; want *", f.Detail)
	}
	if f.Metadata["statement_index"] != 2 {
		t.Errorf("statement_index: got %v", f.Metadata["statement_index"])
	}
	if f.Severity != models.SeverityHigh {
		t.Errorf("severity: got %q; want HIGH", f.Severity)
	}
}

func TestIAMWildcardActionRule_ServiceWildcard(t *testing.T) {
	findings := IAMWildcardActionRule{}.Evaluate(stmtCtx(0, models.PolicyStatement{
		Action: models.StringList{"s3:GetObject", "ec2:*", "iam:Get*"},
	}))
	if len(findings) != 1 {
		t.Fatalf("want 1 finding (ec2:*), got %d: %v", len(findings), findings)
	}
	if findings[0].Detail != "ec2:*" {
		t.Errorf("detail: got %q; want ec2:*", findings[0].Detail)
	}
}

func TestIAMWildcardActionRule_DenyStillFlagged(t *testing.T) {
	findings := IAMWildcardActionRule{}.Evaluate(stmtCtx(0, models.PolicyStatement{
		Effect: "Deny",
		Action: models.StringList{"*"},
	}))
	if len(findings) != 1 {
		t.Fatalf("effect must not be consulted; want 1 finding, got %d", len(findings))
	}
}

func TestIAMWildcardResourceRule(t *testing.T) {
	tests := []struct {
		resource string
		want     int
	}{
		{"*", 1},
		{"arn:aws:s3:::*", 1},
		{"arn:aws:s3:::bucket/*", 0},
		{"arn:aws:iam::123456789012:role/*", 0},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			findings := IAMWildcardResourceRule{}.Evaluate(stmtCtx(0, models.PolicyStatement{
				Resource: models.StringList{tt.resource},
			}))
			if len(findings) != tt.want {
				t.Fatalf("want %d findings, got %d", tt.want, len(findings))
			}
			if tt.want == 1 && findings[0].Category != "Overly permissive Resource" {
				t.Errorf("category: got %q", findings[0].Category)
			}
		})
	}
}

func TestIAMRules_NoWildcards(t *testing.T) {
	ctx := stmtCtx(0, models.PolicyStatement{
		Effect:   "Allow",
		Action:   models.StringList{"s3:GetObject"},
		Resource: models.StringList{"arn:aws:s3:::reports/*"},
	})
	if n := len(IAMWildcardActionRule{}.Evaluate(ctx)) + len(IAMWildcardResourceRule{}.Evaluate(ctx)); n != 0 {
		t.Errorf("want 0 findings, got %d", n)
	}
}
