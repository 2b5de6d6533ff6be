package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/config"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/engine"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/logging"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/version"
)

// Options holds the flags every binary accepts.
type Options struct {
	ReportsDir string
	Format     string
	Output     string
	PolicyPath string
	Upload     string
	Profile    string
	Region     string
	Debug      bool
	Color      bool
}

// Register adds the shared flags to cmd.
func (o *Options) Register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.ReportsDir, "reports-dir", "", "Directory for report files (default from config, \"reports\")")
	f.StringVar(&o.Format, "format", string(engine.ReportFormatText), "Stdout format: text, json or table")
	f.StringVar(&o.Output, "output", "", "Also write the full JSON report to this file path")
	f.StringVar(&o.PolicyPath, "policy", "", "Path to policy file (default: ./secops.yaml when present)")
	f.StringVar(&o.Upload, "upload", "", "Upload written artifacts to s3://bucket/prefix")
	f.StringVar(&o.Profile, "profile", "", "AWS profile name (default: config or environment)")
	f.StringVar(&o.Region, "region", "", "AWS region (default: profile region)")
	f.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
	f.BoolVar(&o.Color, "color", false, "Colour severities in table output")
}

// Env is everything a command needs after flags, config and policy have
// been resolved.
type Env struct {
	Options

	Config *config.Config
	Policy *policy.PolicyConfig
	Logger *zap.SugaredLogger

	// AWS loads AWS profiles for upload and AWS-backed sources.
	AWS common.AWSClientProvider

	Stdout io.Writer
}

// Setup resolves o against the config file, builds the logger and loads the
// policy, validating it against ruleIDs.
func Setup(cmd *cobra.Command, o *Options, ruleIDs []string) (*Env, error) {
	cfg, err := config.NewFileLoader("").Load()
	if err != nil {
		return nil, err
	}
	return setupWithConfig(cmd, o, cfg, ruleIDs)
}

func setupWithConfig(cmd *cobra.Command, o *Options, cfg *config.Config, ruleIDs []string) (*Env, error) {
	switch engine.ReportFormat(o.Format) {
	case engine.ReportFormatText, engine.ReportFormatJSON, engine.ReportFormatTable:
	default:
		return nil, fmt.Errorf("invalid --format %q: must be text, json or table", o.Format)
	}

	resolved := *o
	if resolved.ReportsDir == "" {
		resolved.ReportsDir = cfg.ReportsDir
	}
	if resolved.Profile == "" {
		resolved.Profile = cfg.AWS.DefaultProfile
	}
	if resolved.Region == "" {
		resolved.Region = cfg.AWS.DefaultRegion
	}
	if resolved.Upload == "" {
		resolved.Upload = cfg.Upload.Target
	}

	logger, err := logging.New(resolved.Debug)
	if err != nil {
		return nil, err
	}

	pol, err := policy.LoadOptional(resolved.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	if pol != nil {
		if errs := policy.Validate(pol, ruleIDs); len(errs) > 0 {
			return nil, fmt.Errorf("invalid policy: %w", errors.Join(errs...))
		}
		logger.Debugw("policy loaded", "rules", len(pol.Rules), "tools", len(pol.Tools))
	}

	return &Env{
		Options: resolved,
		Config:  cfg,
		Policy:  pol,
		Logger:  logger,
		AWS:     common.NewDefaultAWSClientProvider(),
		Stdout:  cmd.OutOrStdout(),
	}, nil
}

// LoadAWSProfile loads the profile selected by --profile/--region.
func (e *Env) LoadAWSProfile(ctx context.Context) (*common.ProfileConfig, error) {
	pc, err := e.AWS.LoadProfile(ctx, e.Profile, e.Region)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile: %w", err)
	}
	e.Logger.Debugw("aws profile loaded", "profile", pc.ProfileName, "account", pc.AccountID, "region", pc.Region)
	return pc, nil
}

// NewVersionCmd returns the "version" subcommand for binary.
func NewVersionCmd(binary string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info(binary))
		},
	}
}
