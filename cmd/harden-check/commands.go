package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks"
	hardpack "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/hardening"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

const (
	binaryName = "harden-check"
	usageLine  = "Usage: harden-check <sysctl.conf> <sshd_config>"
	reportName = "hardening_report.txt"
)

func newRootCmd() *cobra.Command {
	var opts cli.Options

	cmd := &cobra.Command{
		Use:   "harden-check <sysctl.conf> <sshd_config>",
		Short: "Check sysctl and sshd configuration for common hardening gaps",
		Args:  cli.RequireArgs(2, usageLine),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd, &opts, rulepacks.AllRuleIDs())
			if err != nil {
				return err
			}
			defer env.Logger.Sync() //nolint:errcheck

			eng := engine.NewDefaultEngine(rules.NewRegistryFromPack(hardpack.New()), env.Logger)
			rep, err := eng.RunAudit(cmd.Context(), engine.AuditOptions{
				Tool:      engine.ToolHardening,
				Collector: &engine.HardeningCollector{SysctlPath: args[0], SSHDPath: args[1]},
				Policy:    env.Policy,
			})
			if err != nil {
				return fmt.Errorf("hardening check: %w", err)
			}

			path := filepath.Join(env.ReportsDir, reportName)
			if err := report.WriteText(path, rep.Findings, report.HardeningLayout); err != nil {
				return err
			}
			return env.Finish(cmd.Context(), cli.Result{
				Report:    rep,
				Artifacts: []string{path},
				Message:   "Hardening report written to " + path,
				Table:     output.TableOptions{LocationLabel: "SETTING"},
			})
		},
	}

	opts.Register(cmd)
	cmd.AddCommand(cli.NewVersionCmd(binaryName), cli.NewDoctorCmd(rulepacks.AllRuleIDs()))
	return cmd
}
