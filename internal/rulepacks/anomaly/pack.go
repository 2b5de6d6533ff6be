// Package anomaly provides the telemetry anomaly rule pack.
package anomaly

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"

// New returns the anomaly rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		rules.AnomalyIsolationForestRule{}, // MEDIUM: isolation forest outlier
	}
}
