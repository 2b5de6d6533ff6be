package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/iforest"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

// PolicySource yields IAM policy documents. files.PolicyFile reads a local
// JSON or Terraform file; iampolicy.Source lists customer managed policies.
type PolicySource interface {
	LoadPolicies(ctx context.Context) ([]*models.PolicyDocument, error)
	Describe() []string
}

// IAMCollector emits one context per policy statement, documents in source
// order.
type IAMCollector struct {
	Source PolicySource

	// Documents is set by Collect.
	Documents []*models.PolicyDocument
}

func (c *IAMCollector) Collect(ctx context.Context) ([]rules.RuleContext, error) {
	docs, err := c.Source.LoadPolicies(ctx)
	if err != nil {
		return nil, err
	}
	c.Documents = docs

	var units []rules.RuleContext
	for _, doc := range docs {
		for _, ref := range doc.Statements() {
			units = append(units, rules.RuleContext{IAMStatement: &ref})
		}
	}
	return units, nil
}

func (c *IAMCollector) Inputs() []string { return c.Source.Describe() }

// HardeningCollector reads a sysctl file and an sshd_config file.
type HardeningCollector struct {
	SysctlPath string
	SSHDPath   string
}

func (c *HardeningCollector) Collect(_ context.Context) ([]rules.RuleContext, error) {
	host, err := files.LoadHostConfig(c.SysctlPath, c.SSHDPath)
	if err != nil {
		return nil, err
	}
	return []rules.RuleContext{{Host: host}}, nil
}

func (c *HardeningCollector) Inputs() []string { return []string{c.SysctlPath, c.SSHDPath} }

// WebCollector reads HTML and JavaScript files, one context per file in
// argument order.
type WebCollector struct {
	Paths   []string
	Workers int

	// Skipped lists paths that were not scanned because of their suffix.
	// Set by Collect.
	Skipped []string
}

func (c *WebCollector) Collect(ctx context.Context) ([]rules.RuleContext, error) {
	loaded, skipped, err := files.LoadWebFiles(ctx, c.Paths, c.Workers)
	if err != nil {
		return nil, err
	}
	c.Skipped = skipped

	units := make([]rules.RuleContext, 0, len(loaded))
	for i := range loaded {
		units = append(units, rules.RuleContext{WebFile: &loaded[i]})
	}
	return units, nil
}

func (c *WebCollector) Inputs() []string { return slices.Clone(c.Paths) }

// LogsCollector reads one network event log.
type LogsCollector struct {
	Path string

	// Logs is set by Collect so callers can aggregate the same events the
	// rules saw.
	Logs *models.LogData
}

func (c *LogsCollector) Collect(_ context.Context) ([]rules.RuleContext, error) {
	data, err := files.LoadEventLog(c.Path)
	if err != nil {
		return nil, err
	}
	c.Logs = data
	return []rules.RuleContext{{Logs: data}}, nil
}

func (c *LogsCollector) Inputs() []string { return []string{c.Path} }

// TelemetrySource yields a telemetry table. files.TelemetryFile reads a CSV;
// telemetry.Source pulls CloudWatch metrics.
type TelemetrySource interface {
	LoadTelemetry(ctx context.Context) (*models.TelemetryData, error)
	Describe() []string
}

// AnomalyCollector loads telemetry, fits an isolation forest on it (or uses
// Model when one is supplied) and fills the per-row predictions.
type AnomalyCollector struct {
	Source  TelemetrySource
	Options iforest.Options

	// Model scores the telemetry instead of a freshly fitted forest when
	// set. After Collect it holds whichever forest was used.
	Model *iforest.Forest

	// Fitted reports whether Collect fitted Model itself.
	Fitted bool

	// Telemetry is set by Collect.
	Telemetry *models.TelemetryData
}

func (c *AnomalyCollector) Collect(ctx context.Context) ([]rules.RuleContext, error) {
	data, err := c.Source.LoadTelemetry(ctx)
	if err != nil {
		return nil, err
	}

	if c.Model == nil {
		forest, err := iforest.Fit(data.Features, c.Options)
		if err != nil {
			return nil, fmt.Errorf("fit isolation forest: %w", err)
		}
		forest.Features = slices.Clone(models.TelemetryFeatures)
		c.Model = forest
		c.Fitted = true
	} else if len(c.Model.Features) > 0 && !slices.Equal(c.Model.Features, models.TelemetryFeatures) {
		return nil, fmt.Errorf("model features %v do not match telemetry features %v", c.Model.Features, models.TelemetryFeatures)
	}

	data.Anomalous, data.Scores = c.Model.Predict(data.Features)
	c.Telemetry = data
	return []rules.RuleContext{{Telemetry: data}}, nil
}

func (c *AnomalyCollector) Inputs() []string { return c.Source.Describe() }
