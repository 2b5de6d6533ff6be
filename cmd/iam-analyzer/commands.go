package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/iampolicy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks"
	iampack "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/iam"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

const (
	binaryName = "iam-analyzer"
	usageLine  = "Usage: iam-analyzer <policy.json>"

	// awsReportStem names the report of a --aws run.
	awsReportStem = "aws_policies"
)

func newRootCmd() *cobra.Command {
	var (
		opts         cli.Options
		liveAWS      bool
		onlyAttached bool
	)

	cmd := &cobra.Command{
		Use:   "iam-analyzer <policy.json|main.tf>",
		Short: "Flag wildcard actions and resources in IAM policies",
		Long: `Analyze an IAM policy JSON document, the IAM policies of a Terraform file,
or (with --aws) the customer managed policies of a live account, and report
statements that grant wildcard actions or resources.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if liveAWS {
				return cobra.NoArgs(cmd, args)
			}
			return cli.RequireArgs(1, usageLine)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd, &opts, rulepacks.AllRuleIDs())
			if err != nil {
				return err
			}
			defer env.Logger.Sync() //nolint:errcheck

			if liveAWS {
				src := &iampolicy.Source{
					Provider:     env.AWS,
					Profile:      env.Profile,
					Region:       env.Region,
					OnlyAttached: onlyAttached,
				}
				return runIAM(cmd.Context(), env, src, awsReportStem)
			}
			return runIAM(cmd.Context(), env, &files.PolicyFile{Path: args[0]}, files.ReportStem(args[0]))
		},
	}

	opts.Register(cmd)
	cmd.Flags().BoolVar(&liveAWS, "aws", false, "Analyze the customer managed policies of the AWS account instead of a file")
	cmd.Flags().BoolVar(&onlyAttached, "only-attached", false, "With --aws, only analyze policies attached to a user, group or role")
	cmd.AddCommand(cli.NewVersionCmd(binaryName), cli.NewDoctorCmd(rulepacks.AllRuleIDs()))
	return cmd
}

func runIAM(ctx context.Context, env *cli.Env, src engine.PolicySource, stem string) error {
	collector := &engine.IAMCollector{Source: src}
	eng := engine.NewDefaultEngine(rules.NewRegistryFromPack(iampack.New()), env.Logger)

	rep, err := eng.RunAudit(ctx, engine.AuditOptions{
		Tool:      engine.ToolIAM,
		Collector: collector,
		Policy:    env.Policy,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", describe(src), err)
	}

	qualified := false
	for _, doc := range collector.Documents {
		qualified = qualified || doc.Qualified
	}
	switch s := src.(type) {
	case *files.PolicyFile:
		analyzed := make(map[string]bool, len(collector.Documents))
		for _, doc := range collector.Documents {
			analyzed[doc.Source] = true
		}
		for _, ref := range s.Dynamic {
			if analyzed[ref] {
				env.Logger.Warnw("policy is not fully static, partially analyzed", "block", ref, "file", s.Path)
			} else {
				env.Logger.Warnw("policy is not static, skipped", "block", ref, "file", s.Path)
			}
		}
		if len(s.Dynamic) > 0 {
			rep.SetMeta("skipped_blocks", s.Dynamic)
		}
	case *iampolicy.Source:
		rep.SetMeta("account_id", s.AccountID)
	}
	rep.SetMeta("documents", len(collector.Documents))

	path := filepath.Join(env.ReportsDir, stem+"_report.txt")
	if err := report.WriteText(path, rep.Findings, report.IAMLayout); err != nil {
		return err
	}

	msg := "Findings detected. Report written to " + path
	if len(rep.Findings) == 0 {
		msg = "No critical findings. Report written to " + path
	}
	return env.Finish(ctx, cli.Result{
		Report:    rep,
		Artifacts: []string{path},
		Message:   msg,
		Table:     output.TableOptions{LocationLabel: "STATEMENT", IncludeSource: qualified},
	})
}

func describe(src engine.PolicySource) string {
	if d := src.Describe(); len(d) > 0 {
		return d[0]
	}
	return "policies"
}
