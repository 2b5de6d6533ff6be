package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/cli"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/iforest"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/output"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/telemetry"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/files"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/report"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks"
	anomalypack "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rulepacks/anomaly"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"
)

const (
	binaryName = "anomaly-detector"
	usageLine  = "Usage: anomaly-detector <telemetry.csv>"

	modelName     = "isolation_model.json"
	anomaliesName = "anomalies.csv"
)

// forestFlags are the model parameters settable on the command line. Unset
// flags fall back to anomaly tool params in the policy, then to defaults.
type forestFlags struct {
	trees         int
	maxSamples    int
	contamination float64
	seed          int64
}

func newRootCmd() *cobra.Command {
	var (
		opts       cli.Options
		forest     forestFlags
		modelsDir  string
		modelPath  string
		cloudwatch bool
		instances  []string
		window     time.Duration
		period     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "anomaly-detector <telemetry.csv>",
		Short: "Flag outlier rows in host telemetry with an isolation forest",
		Long: `Fit an isolation forest on the cpu, mem, net_in and net_out columns of a
telemetry CSV (or CloudWatch EC2 metrics with --cloudwatch), write the
flagged rows to anomalies.csv and save the fitted model.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if cloudwatch {
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

			var src engine.TelemetrySource
			if cloudwatch {
				src = &telemetry.Source{
					Provider:    env.AWS,
					Profile:     env.Profile,
					Region:      env.Region,
					InstanceIDs: instances,
					Window:      window,
					Period:      period,
				}
			} else {
				src = files.TelemetryFile{Path: args[0]}
			}

			collector := &engine.AnomalyCollector{
				Source:  src,
				Options: forestOptions(cmd, forest, env.Policy),
			}
			if modelPath != "" {
				model, err := iforest.Load(modelPath)
				if err != nil {
					return err
				}
				collector.Model = model
			}

			eng := engine.NewDefaultEngine(rules.NewRegistryFromPack(anomalypack.New()), env.Logger)
			rep, err := eng.RunAudit(cmd.Context(), engine.AuditOptions{
				Tool:      engine.ToolAnomaly,
				Collector: collector,
				Policy:    env.Policy,
			})
			if err != nil {
				return fmt.Errorf("detect anomalies: %w", err)
			}

			if modelsDir == "" {
				modelsDir = env.Config.ModelsDir
			}
			var artifacts []string
			var msg string
			if collector.Fitted {
				saved := filepath.Join(modelsDir, modelName)
				if err := collector.Model.Save(saved); err != nil {
					return err
				}
				artifacts = append(artifacts, saved)
				msg = "Model saved to " + saved
			} else {
				msg = "Model loaded from " + modelPath
			}

			anomalies := filepath.Join(env.ReportsDir, anomaliesName)
			if err := report.WriteAnomalies(anomalies, collector.Telemetry); err != nil {
				return err
			}
			artifacts = append(artifacts, anomalies)

			rep.SetMeta("rows", len(collector.Telemetry.Records))
			rep.SetMeta("threshold", collector.Model.Threshold)
			return env.Finish(cmd.Context(), cli.Result{
				Report:    rep,
				Artifacts: artifacts,
				Message:   msg + " and anomalies written to " + anomalies,
				Table:     output.TableOptions{LocationLabel: "ROW"},
			})
		},
	}

	opts.Register(cmd)
	defaults := iforest.DefaultOptions()
	f := cmd.Flags()
	f.IntVar(&forest.trees, "trees", defaults.Trees, "Number of isolation trees")
	f.IntVar(&forest.maxSamples, "max-samples", defaults.MaxSamples, "Maximum rows sampled per tree")
	f.Float64Var(&forest.contamination, "contamination", defaults.Contamination, "Expected fraction of outliers, in (0, 0.5]")
	f.Int64Var(&forest.seed, "seed", defaults.Seed, "Random seed")
	f.StringVar(&modelsDir, "models-dir", "", "Directory for the fitted model (default from config, \"models\")")
	f.StringVar(&modelPath, "model", "", "Score with a previously saved model instead of fitting a new one")
	f.BoolVar(&cloudwatch, "cloudwatch", false, "Read EC2 telemetry from CloudWatch instead of a CSV file")
	f.StringSliceVar(&instances, "instance", nil, "With --cloudwatch, EC2 instance IDs to read (default: all running)")
	f.DurationVar(&window, "window", telemetry.DefaultWindow, "With --cloudwatch, how far back to read metrics")
	f.DurationVar(&period, "period", telemetry.DefaultPeriod, "With --cloudwatch, metric aggregation period")
	cmd.AddCommand(cli.NewVersionCmd(binaryName), cli.NewDoctorCmd(rulepacks.AllRuleIDs()))
	return cmd
}

// forestOptions resolves each model parameter from its flag when set, else
// from the anomaly tool params of the policy, else from the default.
func forestOptions(cmd *cobra.Command, ff forestFlags, pol *policy.PolicyConfig) iforest.Options {
	o := iforest.DefaultOptions()
	flags := cmd.Flags()

	o.Trees = int(policy.GetToolParam(engine.ToolAnomaly, "trees", float64(o.Trees), pol))
	if flags.Changed("trees") {
		o.Trees = ff.trees
	}
	o.MaxSamples = int(policy.GetToolParam(engine.ToolAnomaly, "max_samples", float64(o.MaxSamples), pol))
	if flags.Changed("max-samples") {
		o.MaxSamples = ff.maxSamples
	}
	o.Contamination = policy.GetToolParam(engine.ToolAnomaly, "contamination", o.Contamination, pol)
	if flags.Changed("contamination") {
		o.Contamination = ff.contamination
	}
	o.Seed = int64(policy.GetToolParam(engine.ToolAnomaly, "seed", float64(o.Seed), pol))
	if flags.Changed("seed") {
		o.Seed = ff.seed
	}
	return o
}
