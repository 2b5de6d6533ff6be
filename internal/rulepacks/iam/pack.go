// Package iam provides the IAM policy rule pack.
// It groups all IAM statement rules into a single New() function that the
// iam-analyzer command wires into a DefaultRuleRegistry.
//
// Convention: every rule pack lives in internal/rulepacks/<tool>/pack.go
// and exposes a single New() func returning []rules.Rule.
package iam

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"

// New returns the IAM rule pack. Action checks precede resource checks, so
// per statement every action finding is reported before any resource finding.
func New() []rules.Rule {
	return []rules.Rule{
		rules.IAMWildcardActionRule{},   // HIGH: "*" or "service:*" action
		rules.IAMWildcardResourceRule{}, // HIGH: "*" or "arn:aws:s3:::*" resource
	}
}
