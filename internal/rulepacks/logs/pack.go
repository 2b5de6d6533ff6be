// Package logs provides the network event log rule pack.
package logs

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"

// New returns the log rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		rules.LogFailedLoginBurstRule{}, // HIGH: more than min_failures failed logins
	}
}
