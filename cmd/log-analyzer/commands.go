package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/logstats"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks"
	logpack "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/logs"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

const (
	binaryName = "log-analyzer"
	usageLine  = "Usage: log-analyzer <logs.csv>"

	defaultTopN = 10
)

// Artifact names, written in this order.
const (
	summaryName  = "threat_summary.csv"
	chartName    = "top_ips.png"
	failuresName = "failed_logins.csv"
)

func newRootCmd() *cobra.Command {
	var (
		opts cli.Options
		topN int
	)

	cmd := &cobra.Command{
		Use:   "log-analyzer <logs.csv>",
		Short: "Summarize network event logs by source IP",
		Long: `Read an event log CSV (timestamp, source_ip, event), write the busiest
source IPs to threat_summary.csv with a bar chart, and flag IPs with
repeated failed logins.`,
		Args: cli.RequireArgs(1, usageLine),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd, &opts, rulepacks.AllRuleIDs())
			if err != nil {
				return err
			}
			defer env.Logger.Sync() //nolint:errcheck

			collector := &engine.LogsCollector{Path: args[0]}
			eng := engine.NewDefaultEngine(rules.NewRegistryFromPack(logpack.New()), env.Logger)
			rep, err := eng.RunAudit(cmd.Context(), engine.AuditOptions{
				Tool:      engine.ToolLogs,
				Collector: collector,
				Policy:    env.Policy,
			})
			if err != nil {
				return fmt.Errorf("analyze %s: %w", args[0], err)
			}

			if !cmd.Flags().Changed("top") {
				topN = int(policy.GetToolParam(engine.ToolLogs, "top_n", float64(topN), env.Policy))
			}
			minFailures := policy.GetIntThreshold("LOG_FAILED_LOGIN_BURST", "min_failures", rules.DefaultMinFailures, env.Policy)

			events := collector.Logs.Events
			top := logstats.TopSources(events, topN)
			failures := logstats.TopFailures(logstats.FailuresByIP(events), minFailures)
			env.Logger.Debugw("log statistics", "events", len(events), "top_sources", len(top), "failing_sources", len(failures))

			summary := filepath.Join(env.ReportsDir, summaryName)
			if err := report.WriteIPCounts(summary, "count", top); err != nil {
				return err
			}
			chart := filepath.Join(env.ReportsDir, chartName)
			if err := report.WriteBarChart(chart, top, "Event Count"); err != nil {
				return err
			}
			failed := filepath.Join(env.ReportsDir, failuresName)
			if err := report.WriteIPCounts(failed, "fail_count", failures); err != nil {
				return err
			}

			rep.SetMeta("events", len(events))
			rep.SetMeta("top_sources", top)
			return env.Finish(cmd.Context(), cli.Result{
				Report:    rep,
				Artifacts: []string{summary, chart, failed},
				Message:   "Reports generated in " + strings.TrimSuffix(env.ReportsDir, "/") + "/",
				Table:     output.TableOptions{LocationLabel: "SOURCE IP"},
			})
		},
	}

	opts.Register(cmd)
	cmd.Flags().IntVar(&topN, "top", defaultTopN, "Number of source IPs in the summary and chart")
	cmd.AddCommand(cli.NewVersionCmd(binaryName), cli.NewDoctorCmd(rulepacks.AllRuleIDs()))
	return cmd
}
