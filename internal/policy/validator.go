package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// KnownTools is the set of tool names accepted in the tools and enforcement
// sections.
var KnownTools = []string{"anomaly", "iam", "hardening", "logs", "web"}

// toolParams lists the params each tool reads from tools.<tool>.params.
// Tools absent from the map take no params.
var toolParams = map[string][]string{
	"anomaly": {"contamination", "max_samples", "seed", "trees"},
	"logs":    {"top_n"},
}

// ruleParams lists the params each rule reads from rules.<id>.params.
var ruleParams = map[string][]string{
	"LOG_FAILED_LOGIN_BURST": {"min_failures"},
}

// countParams must be whole numbers; minimums are checked per key below.
var countParams = map[string]bool{
	"max_samples": true, "min_failures": true, "seed": true, "top_n": true, "trees": true,
}

const severityList = "CRITICAL, HIGH, MEDIUM, LOW, INFO"

// Validate checks cfg against the tools and rules this build knows about. It
// reports every problem it finds, in section order (version, tools, rules,
// enforcement) and key order within a section. An empty result means cfg is
// valid.
func Validate(cfg *PolicyConfig, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}
	v := validation{rules: setOf(availableRuleIDs), tools: setOf(KnownTools)}

	if cfg.Version != 1 {
		v.addf("version: unsupported value %d; must be 1", cfg.Version)
	}
	for _, name := range sortedKeys(cfg.Tools) {
		v.tool(name, cfg.Tools[name])
	}
	for _, id := range sortedKeys(cfg.Rules) {
		if _, ok := v.rules[id]; !ok {
			v.addf("rules.%s: unknown rule ID", id)
		}
		v.severity("rules."+id+".severity", cfg.Rules[id].Severity)
		v.params("rules."+id, ruleParams[id], cfg.Rules[id].Params)
	}
	for _, name := range sortedKeys(cfg.Enforcement) {
		v.knownTool("enforcement." + name)
		v.severity("enforcement."+name+".fail_on_severity", cfg.Enforcement[name].FailOnSeverity)
	}
	return v.errs
}

type validation struct {
	rules map[string]struct{}
	tools map[string]struct{}
	errs  []error
}

func (v *validation) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// knownTool checks the last dotted segment of path.
func (v *validation) knownTool(path string) {
	name := path[strings.LastIndex(path, ".")+1:]
	if _, ok := v.tools[name]; !ok {
		v.addf("%s: unknown tool; valid values: %s", path, strings.Join(KnownTools, ", "))
	}
}

func (v *validation) severity(path, value string) {
	if value != "" && !validSeverity(value) {
		v.addf("%s: invalid value %q; valid values: %s", path, value, severityList)
	}
}

func (v *validation) tool(name string, tc ToolConfig) {
	v.knownTool("tools." + name)
	v.severity("tools."+name+".min_severity", tc.MinSeverity)

	v.params("tools."+name, toolParams[name], tc.Params)
}

// params checks the params map at prefix against the allowed keys and the
// range of each known key.
func (v *validation) params(prefix string, allowedKeys []string, params map[string]float64) {
	allowed := setOf(allowedKeys)
	for _, key := range sortedKeys(params) {
		path := prefix + ".params." + key
		if _, ok := allowed[key]; !ok {
			v.addf("%s: unknown param", path)
			continue
		}
		val := params[key]
		if countParams[key] && val != math.Trunc(val) {
			v.addf("%s: must be a whole number, got %g", path, val)
			continue
		}
		switch key {
		case "contamination":
			if val <= 0 || val > 0.5 {
				v.addf("%s: %g out of range (0, 0.5]", path, val)
			}
		case "trees", "max_samples", "top_n":
			if val < 1 {
				v.addf("%s: must be at least 1, got %g", path, val)
			}
		case "min_failures":
			if val < 0 {
				v.addf("%s: must not be negative, got %g", path, val)
			}
		}
	}
}

func validSeverity(s string) bool {
	_, ok := severityRank[models.Severity(strings.ToUpper(s))]
	return ok
}

func setOf(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}
