// Package rulepacks indexes the per-tool rule packs.
package rulepacks

import (
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/anomaly"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/hardening"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/iam"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/logs"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/web"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

// AllRuleIDs returns the ID of every rule of every tool. A single policy
// file is shared by all binaries, so each validates against the full set.
func AllRuleIDs() []string {
	var all []rules.Rule
	all = append(all, anomaly.New()...)
	all = append(all, iam.New()...)
	all = append(all, hardening.New()...)
	all = append(all, logs.New()...)
	all = append(all, web.Extended()...)
	return rules.IDs(all)
}
