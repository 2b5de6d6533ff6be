package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// AnomalyIsolationForestRule turns the anomaly model's outlier predictions
// into findings. The model itself is fitted before evaluation; this rule
// only reads TelemetryData.Anomalous and TelemetryData.Scores.
type AnomalyIsolationForestRule struct{}

func (r AnomalyIsolationForestRule) ID() string   { return "ANOMALY_ISOLATION_FOREST" }
func (r AnomalyIsolationForestRule) Name() string { return "Telemetry Outlier" }

// Evaluate returns one MEDIUM finding per flagged row, in row order.
func (r AnomalyIsolationForestRule) Evaluate(ctx RuleContext) []models.Finding {
	t := ctx.Telemetry
	if t == nil {
		return nil
	}
	var findings []models.Finding
	for i, flagged := range t.Anomalous {
		if !flagged {
			continue
		}
		row := strconv.Itoa(i)
		meta := map[string]any{"row": i}
		if i < len(t.Scores) {
			meta["score"] = t.Scores[i]
		}
		findings = append(findings, models.Finding{
			ID:           fmt.Sprintf("%s-%s-%s", r.ID(), t.Source, row),
			RuleID:       r.ID(),
			Tool:         ctx.Tool,
			ResourceID:   row,
			ResourceType: models.ResourceTelemetryRow,
			Source:       t.Source,
			Category:     "Anomaly",
			Detail:       describeFeatures(t, i),
			Severity:     models.SeverityMedium,
			Explanation:  fmt.Sprintf("Row %s of %s is isolated unusually fast by the isolation forest.", row, t.Source),
			DetectedAt:   time.Now().UTC(),
			Metadata:     meta,
		})
	}
	return findings
}

// describeFeatures renders row i's model features as "cpu=.. mem=..".
func describeFeatures(t *models.TelemetryData, i int) string {
	if i >= len(t.Features) {
		return ""
	}
	parts := make([]string, 0, len(models.TelemetryFeatures))
	for j, name := range models.TelemetryFeatures {
		if j >= len(t.Features[i]) {
			break
		}
		parts = append(parts, name+"="+strconv.FormatFloat(t.Features[i][j], 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}
