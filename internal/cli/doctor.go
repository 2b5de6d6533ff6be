package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/config"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/policy"
	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
)

// errUnhealthy is returned by the doctor command when a required check fails.
var errUnhealthy = errors.New("environment checks failed")

// DoctorResult is the structured output of "<binary> doctor". It can be
// serialised to JSON via --format=json or rendered as text (default).
type DoctorResult struct {
	Config struct {
		Path    string `json:"path"`
		Present bool   `json:"present"`
		Valid   bool   `json:"valid"`
		Error   string `json:"error,omitempty"`
	} `json:"config"`

	Policy struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	// AWS is only checked with --aws.
	AWS *DoctorAWS `json:"aws,omitempty"`

	OverallHealthy bool `json:"overall_healthy"`
}

// DoctorAWS is the AWS section of DoctorResult.
type DoctorAWS struct {
	Profile     string `json:"profile,omitempty"`
	Credentials bool   `json:"credentials_ok"`
	AccountID   string `json:"account_id,omitempty"`
	Region      string `json:"region,omitempty"`
	Error       string `json:"error,omitempty"`
}

// doctorChecks are the inputs of collectDoctorResult.
type doctorChecks struct {
	configPath string
	policyPath string
	ruleIDs    []string

	// aws is nil when AWS checks are skipped.
	aws     common.AWSClientProvider
	profile string
	region  string
}

// NewDoctorCmd returns the "doctor" subcommand, which checks the config
// file, the policy file and optionally AWS credentials.
func NewDoctorCmd(ruleIDs []string) *cobra.Command {
	var (
		format   string
		polPath  string
		checkAWS bool
		profile  string
		region   string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checks := doctorChecks{
				configPath: config.DefaultPath(),
				policyPath: polPath,
				ruleIDs:    ruleIDs,
				profile:    profile,
				region:     region,
			}
			if checks.policyPath == "" {
				checks.policyPath = policy.DefaultPath
			}
			if checkAWS {
				checks.aws = common.NewDefaultAWSClientProvider()
			}
			result, err := runDoctor(cmd.Context(), checks, cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", `Output format: "text" or "json"`)
	cmd.Flags().StringVar(&polPath, "policy", "", "Policy file to validate (default: ./secops.yaml)")
	cmd.Flags().BoolVar(&checkAWS, "aws", false, "Also check AWS credentials")
	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile to check (default: credential chain)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region to check (default: profile region)")
	return cmd
}

// runDoctor collects all diagnostic results and renders them to w. The
// returned error covers only rendering failures; callers inspect
// OverallHealthy for the verdict.
func runDoctor(ctx context.Context, checks doctorChecks, w io.Writer, format string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, checks)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorText(result, w)
	}
	return result, nil
}

// collectDoctorResult runs every check. It performs no rendering.
func collectDoctorResult(ctx context.Context, checks doctorChecks) DoctorResult {
	var result DoctorResult

	// Config: stat → load (file is optional).
	result.Config.Path = checks.configPath
	if checks.configPath != "" {
		if _, err := os.Stat(checks.configPath); err == nil {
			result.Config.Present = true
		} else if !os.IsNotExist(err) {
			result.Config.Present = true
			result.Config.Error = err.Error()
		}
	}
	if result.Config.Error == "" {
		if _, err := config.NewFileLoader(checks.configPath).Load(); err != nil {
			result.Config.Error = err.Error()
		} else {
			result.Config.Valid = true
		}
	}

	// Policy: stat → load → validate (file is optional).
	result.Policy.Path = checks.policyPath
	_, statErr := os.Stat(checks.policyPath)
	switch {
	case statErr == nil:
		result.Policy.Present = true
		cfg, err := policy.LoadPolicy(checks.policyPath)
		if err != nil {
			result.Policy.Errors = []string{err.Error()}
			break
		}
		errs := policy.Validate(cfg, checks.ruleIDs)
		for _, e := range errs {
			result.Policy.Errors = append(result.Policy.Errors, e.Error())
		}
		result.Policy.Valid = len(errs) == 0
	case !os.IsNotExist(statErr):
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	healthy := result.Config.Valid && (!result.Policy.Present || result.Policy.Valid)

	// AWS: credentials → STS account ID.
	if checks.aws != nil {
		result.AWS = &DoctorAWS{Profile: checks.profile}
		pc, err := checks.aws.LoadProfile(ctx, checks.profile, checks.region)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.Credentials = true
			result.AWS.AccountID = pc.AccountID
			result.AWS.Region = pc.Region
		}
		healthy = healthy && result.AWS.Credentials
	}

	result.OverallHealthy = healthy
	return result
}

// renderDoctorText writes the human-readable diagnostic output to w.
func renderDoctorText(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintf(w, "\nConfig (%s):\n", result.Config.Path)
	switch {
	case result.Config.Error != "":
		doctorPrint(w, "Config valid", "FAIL", result.Config.Error)
	case !result.Config.Present:
		doctorPrint(w, "Config present", "Not found (defaults)", "")
	default:
		doctorPrint(w, "Config present", "YES", "")
		doctorPrint(w, "Config valid", "OK", "")
	}

	fmt.Fprintf(w, "\nPolicy (%s):\n", result.Policy.Path)
	if !result.Policy.Present {
		doctorPrint(w, "Policy present", "Not found (optional)", "")
	} else {
		doctorPrint(w, "Policy present", "YES", "")
		if result.Policy.Valid {
			doctorPrint(w, "Policy valid", "OK", "")
		} else {
			for _, e := range result.Policy.Errors {
				doctorPrint(w, "Policy valid", "FAIL", e)
			}
		}
	}

	if result.AWS == nil {
		return
	}
	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		return
	}
	doctorPrint(w, "Credentials", "OK", "")
	doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
