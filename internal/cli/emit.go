package cli

import (
	"context"
	"fmt"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/upload"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
)

// Result is what a command hands to Finish once its artifacts are written.
type Result struct {
	Report *models.AuditReport

	// Artifacts are the files the run wrote, in write order.
	Artifacts []string

	// Message is the status line printed in text format.
	Message string

	// Table configures the table format.
	Table output.TableOptions
}

// Finish uploads artifacts when requested, writes --output, prints the
// result in the selected format and finally applies policy enforcement.
func (e *Env) Finish(ctx context.Context, res Result) error {
	rep := res.Report
	rep.Artifacts = res.Artifacts

	if e.Upload != "" {
		uris, err := e.upload(ctx, res.Artifacts)
		if err != nil {
			return err
		}
		rep.SetMeta("uploaded", uris)
	}

	if e.Output != "" {
		if err := report.WriteJSON(e.Output, rep); err != nil {
			return err
		}
		e.Logger.Debugw("json report written", "path", e.Output)
	}

	switch engine.ReportFormat(e.Format) {
	case engine.ReportFormatJSON:
		if err := report.PrintJSON(e.Stdout, rep); err != nil {
			return err
		}
	case engine.ReportFormatTable:
		tbl := res.Table
		tbl.Colored = tbl.Colored || e.Color
		output.RenderTable(e.Stdout, rep.Findings, tbl)
		fmt.Fprintln(e.Stdout)
		output.RenderSummary(e.Stdout, rep)
	default:
		fmt.Fprintln(e.Stdout, res.Message)
	}

	if breaches := policy.Breaches(rep.Tool, rep.Findings, e.Policy); len(breaches) > 0 {
		e.Logger.Warnw("enforcement threshold reached",
			"tool", rep.Tool,
			"fail_on", e.Policy.Enforcement[rep.Tool].FailOnSeverity,
			"breaches", len(breaches),
			"first", breaches[0].ResourceID,
		)
		return ErrEnforcement
	}
	return nil
}

func (e *Env) upload(ctx context.Context, files []string) ([]string, error) {
	target, err := upload.ParseTarget(e.Upload)
	if err != nil {
		return nil, err
	}
	pc, err := e.LoadAWSProfile(ctx)
	if err != nil {
		return nil, err
	}
	uris, err := upload.NewUploader(pc.Clients.S3, target).Upload(ctx, files)
	if err != nil {
		return nil, err
	}
	e.Logger.Infow("artifacts uploaded", "target", target.String(), "count", len(uris))
	return uris, nil
}
