package rules

import (
	"testing"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
)

func syntheticLogs(ip string, failures int) *models.LogData {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var events []models.LogEvent
	for i := 0; i < failures; i++ {
		events = append(events, models.LogEvent{Timestamp: base.Add(time.Duration(i) * time.Second), SourceIP: ip, Event: "failed_login"})
	}
	events = append(events,
		models.LogEvent{Timestamp: base, SourceIP: ip, Event: "login"},
		models.LogEvent{Timestamp: base, SourceIP: "9.9.9.9", Event: "failed_login"},
	)
	return &models.LogData{Path: "logs.csv", Events: events}
}

func TestLogFailedLoginBurstRule_NilLogs(t *testing.T) {
	if got := (LogFailedLoginBurstRule{}).Evaluate(RuleContext{}); got != nil {
		t.Errorf("want nil, got %v", got)
	}
}

func TestLogFailedLoginBurstRule_SixFailuresFlagged(t *testing.T) {
	findings := LogFailedLoginBurstRule{}.Evaluate(RuleContext{Tool: "logs", Logs: syntheticLogs("1.2.3.4", 6)})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].ResourceID != "1.2.3.4" {
		t.Errorf("resource_id: got %q", findings[0].ResourceID)
	}
	if findings[0].Metadata["fail_count"] != 6 {
		t.Errorf("fail_count: got %v; want 6", findings[0].Metadata["fail_count"])
	}
}

func TestLogFailedLoginBurstRule_FiveFailuresNotFlagged(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		if got := (LogFailedLoginBurstRule{}).Evaluate(RuleContext{Logs: syntheticLogs("1.2.3.4", n)}); len(got) != 0 {
			t.Errorf("%d failures: want no finding, got %v", n, got)
		}
	}
}

func TestLogFailedLoginBurstRule_PolicyThreshold(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Rules: map[string]policy.RuleConfig{
			"LOG_FAILED_LOGIN_BURST": {Params: map[string]float64{"min_failures": 2}},
		},
	}
	findings := LogFailedLoginBurstRule{}.Evaluate(RuleContext{Policy: cfg, Logs: syntheticLogs("1.2.3.4", 3)})
	if len(findings) != 1 {
		t.Fatalf("want 1 finding with min_failures=2, got %d", len(findings))
	}
}
