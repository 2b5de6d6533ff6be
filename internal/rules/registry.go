package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
)

// DefaultRuleRegistry keeps rules in registration order. Reports list
// findings in that same order.
type DefaultRuleRegistry struct {
	rules []Rule
	seen  map[string]bool
}

// NewDefaultRuleRegistry returns an empty registry.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{seen: map[string]bool{}}
}

// NewRegistryFromPack registers every rule of pack.
func NewRegistryFromPack(pack []Rule) *DefaultRuleRegistry {
	r := NewDefaultRuleRegistry()
	for _, rule := range pack {
		r.Register(rule)
	}
	return r
}

// Register appends rule. A second rule with the same ID is a wiring bug and
// panics.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	id := rule.ID()
	if r.seen[id] {
		panic(fmt.Sprintf("rules: %q registered twice", id))
	}
	r.seen[id] = true
	r.rules = append(r.rules, rule)
}

func (r *DefaultRuleRegistry) All() []Rule { return r.rules }

// EvaluateAll concatenates the findings of every rule the policy leaves
// enabled.
func (r *DefaultRuleRegistry) EvaluateAll(ctx RuleContext) []models.Finding {
	var out []models.Finding
	for _, rule := range r.rules {
		if policy.RuleEnabled(rule.ID(), ctx.Policy) {
			out = append(out, rule.Evaluate(ctx)...)
		}
	}
	return out
}

// IDs lists the IDs of rules in order.
func IDs(rules []Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID()
	}
	return ids
}
