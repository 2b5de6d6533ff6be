package policy_test

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
)

var knownRules = []string{"IAM_WILDCARD_ACTION", "WEB_EVAL_USE", "LOG_FAILED_LOGIN_BURST"}

func ptr(b bool) *bool { return &b }

func mustFail(t *testing.T, cfg *policy.PolicyConfig, wantSubstrings ...string) {
	t.Helper()
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != len(wantSubstrings) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(wantSubstrings), errs)
	}
	for i, want := range wantSubstrings {
		if !strings.Contains(errs[i].Error(), want) {
			t.Errorf("error %d = %q; want it to mention %q", i, errs[i], want)
		}
	}
}

func TestValidate_Accepts(t *testing.T) {
	cases := map[string]*policy.PolicyConfig{
		"minimal": {Version: 1},
		"full": {
			Version: 1,
			Tools: map[string]policy.ToolConfig{
				"web":     {Enabled: ptr(true), MinSeverity: "medium"},
				"logs":    {Params: map[string]float64{"top_n": 5}},
				"anomaly": {Params: map[string]float64{"contamination": 0.05, "seed": 0, "trees": 50, "max_samples": 64}},
			},
			Rules: map[string]policy.RuleConfig{
				"IAM_WILDCARD_ACTION":    {Severity: "critical"},
				"WEB_EVAL_USE":           {Enabled: ptr(false)},
				"LOG_FAILED_LOGIN_BURST": {Params: map[string]float64{"min_failures": 3}},
			},
			Enforcement: map[string]policy.EnforcementConfig{
				"iam":       {FailOnSeverity: "HIGH"},
				"hardening": {FailOnSeverity: "low"},
			},
		},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if errs := policy.Validate(cfg, knownRules); len(errs) != 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	if errs := policy.Validate(nil, knownRules); len(errs) != 1 {
		t.Fatalf("want one error for nil config, got %v", errs)
	}
}

func TestValidate_Version(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{Version: 2}, "version")
}

func TestValidate_UnknownNames(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{
		Version:     1,
		Tools:       map[string]policy.ToolConfig{"cost": {}},
		Rules:       map[string]policy.RuleConfig{"EKS_PUBLIC_ENDPOINT": {}},
		Enforcement: map[string]policy.EnforcementConfig{"k8s": {}},
	}, "tools.cost", "rules.EKS_PUBLIC_ENDPOINT", "enforcement.k8s")
}

func TestValidate_CollectsEverySeverityError(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{
		Version:     1,
		Tools:       map[string]policy.ToolConfig{"web": {MinSeverity: "urgent"}},
		Rules:       map[string]policy.RuleConfig{"WEB_EVAL_USE": {Severity: "severe"}},
		Enforcement: map[string]policy.EnforcementConfig{"iam": {FailOnSeverity: "always"}},
	}, "tools.web.min_severity", "rules.WEB_EVAL_USE.severity", "enforcement.iam.fail_on_severity")
}

func TestValidate_ToolParams(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{
		Version: 1,
		Tools: map[string]policy.ToolConfig{
			"anomaly": {Params: map[string]float64{"contamination": 0.9, "trees": 0}},
			"logs":    {Params: map[string]float64{"top_n": 10, "window": 60}},
			"web":     {Params: map[string]float64{"workers": 4}},
		},
	}, "anomaly.params.contamination", "anomaly.params.trees", "logs.params.window", "web.params.workers")
}

func TestValidate_RuleParams(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"LOG_FAILED_LOGIN_BURST": {Params: map[string]float64{"min_failure": 3, "min_failures": -1}},
			"WEB_EVAL_USE":           {Params: map[string]float64{"threshold": 1}},
		},
	}, "LOG_FAILED_LOGIN_BURST.params.min_failure:", "LOG_FAILED_LOGIN_BURST.params.min_failures", "WEB_EVAL_USE.params.threshold")
}

func TestValidate_CountParamsMustBeWhole(t *testing.T) {
	mustFail(t, &policy.PolicyConfig{
		Version: 1,
		Tools: map[string]policy.ToolConfig{
			"anomaly": {Params: map[string]float64{"contamination": 0.05, "trees": 50.5}},
			"logs":    {Params: map[string]float64{"top_n": 7.9}},
		},
		Rules: map[string]policy.RuleConfig{
			"LOG_FAILED_LOGIN_BURST": {Params: map[string]float64{"min_failures": 4.5}},
		},
	}, "anomaly.params.trees", "logs.params.top_n", "LOG_FAILED_LOGIN_BURST.params.min_failures")
}
