package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks"
	webpack "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/web"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

const (
	binaryName = "vuln-scanner"
	usageLine  = "Usage: vuln-scanner <html> [<js> ...]"
	reportName = "vuln_report.txt"
)

func newRootCmd() *cobra.Command {
	var (
		opts     cli.Options
		extended bool
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "vuln-scanner <html> [<js> ...]",
		Short: "Scan HTML and JavaScript files for risky client-side patterns",
		Long: `Scan .html and .js files for inline scripts, innerHTML assignments, eval()
calls and SQL-like strings. Files with any other suffix are skipped.`,
		Args: cli.RequireArgs(1, usageLine),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd, &opts, rulepacks.AllRuleIDs())
			if err != nil {
				return err
			}
			defer env.Logger.Sync() //nolint:errcheck

			pack := webpack.New()
			if extended {
				pack = webpack.Extended()
			}
			collector := &engine.WebCollector{Paths: args, Workers: workers}
			eng := engine.NewDefaultEngine(rules.NewRegistryFromPack(pack), env.Logger)

			rep, err := eng.RunAudit(cmd.Context(), engine.AuditOptions{
				Tool:      engine.ToolWeb,
				Collector: collector,
				Policy:    env.Policy,
			})
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			for _, p := range collector.Skipped {
				env.Logger.Debugw("skipped unsupported file", "path", p)
			}
			if len(collector.Skipped) > 0 {
				rep.SetMeta("skipped", collector.Skipped)
			}

			path := filepath.Join(env.ReportsDir, reportName)
			if err := report.WriteText(path, rep.Findings, report.WebLayout); err != nil {
				return err
			}
			return env.Finish(cmd.Context(), cli.Result{
				Report:    rep,
				Artifacts: []string{path},
				Message:   "Scan complete. Report at " + path,
				Table:     output.TableOptions{LocationLabel: "FILE"},
			})
		},
	}

	opts.Register(cmd)
	cmd.Flags().BoolVar(&extended, "extended", false, "Also run passive client-side checks (document.write, inline handlers, javascript: URIs, Function constructor)")
	cmd.Flags().IntVar(&workers, "workers", files.DefaultWebWorkers, "Maximum number of files read concurrently")
	cmd.AddCommand(cli.NewVersionCmd(binaryName), cli.NewDoctorCmd(rulepacks.AllRuleIDs()))
	return cmd
}
