package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// Configuration fragments checked by the hardening rules. They are matched
// as plain substrings of the whole file, so commented-out lines count too.
const (
	sysctlIPForwardOn  = "net.ipv4.ip_forward = 1"
	sysctlRPFilterKey  = "net.ipv4.conf.all.rp_filter"
	sshdRootLoginYes   = "PermitRootLogin yes"
	sshdPasswordAuthOn = "PasswordAuthentication yes"
)

// HardenIPForwardRule flags a sysctl file that enables IPv4 forwarding.
type HardenIPForwardRule struct{}

func (r HardenIPForwardRule) ID() string   { return "HARDEN_IP_FORWARD" }
func (r HardenIPForwardRule) Name() string { return "IPv4 Forwarding Enabled" }

func (r HardenIPForwardRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Host == nil || !strings.Contains(ctx.Host.Sysctl.Content, sysctlIPForwardOn) {
		return nil
	}
	return []models.Finding{hardeningFinding(r.ID(), ctx, ctx.Host.Sysctl.Path,
		"ip_forward", "Disable IP forwarding unless required", models.SeverityMedium,
		fmt.Sprintf("%s sets %q; the host will route packets between interfaces.", ctx.Host.Sysctl.Path, sysctlIPForwardOn))}
}

// HardenRPFilterMissingRule flags a sysctl file with no rp_filter setting at
// all. Any value counts as present.
type HardenRPFilterMissingRule struct{}

func (r HardenRPFilterMissingRule) ID() string   { return "HARDEN_RP_FILTER_MISSING" }
func (r HardenRPFilterMissingRule) Name() string { return "Reverse Path Filtering Not Configured" }

func (r HardenRPFilterMissingRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Host == nil || strings.Contains(ctx.Host.Sysctl.Content, sysctlRPFilterKey) {
		return nil
	}
	return []models.Finding{hardeningFinding(r.ID(), ctx, ctx.Host.Sysctl.Path,
		"rp_filter", "Enable rp_filter to harden against spoofing", models.SeverityLow,
		fmt.Sprintf("%s does not set %s.", ctx.Host.Sysctl.Path, sysctlRPFilterKey))}
}

// HardenRootLoginRule flags an sshd_config that permits root logins.
type HardenRootLoginRule struct{}

func (r HardenRootLoginRule) ID() string   { return "HARDEN_SSH_ROOT_LOGIN" }
func (r HardenRootLoginRule) Name() string { return "SSH Root Login Permitted" }

func (r HardenRootLoginRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Host == nil || !strings.Contains(ctx.Host.SSHD.Content, sshdRootLoginYes) {
		return nil
	}
	return []models.Finding{hardeningFinding(r.ID(), ctx, ctx.Host.SSHD.Path,
		"root_login", "Disable PermitRootLogin", models.SeverityHigh,
		fmt.Sprintf("%s contains %q.", ctx.Host.SSHD.Path, sshdRootLoginYes))}
}

// HardenPasswordAuthRule flags an sshd_config that accepts passwords.
type HardenPasswordAuthRule struct{}

func (r HardenPasswordAuthRule) ID() string   { return "HARDEN_SSH_PASSWORD_AUTH" }
func (r HardenPasswordAuthRule) Name() string { return "SSH Password Authentication Enabled" }

func (r HardenPasswordAuthRule) Evaluate(ctx RuleContext) []models.Finding {
	if ctx.Host == nil || !strings.Contains(ctx.Host.SSHD.Content, sshdPasswordAuthOn) {
		return nil
	}
	return []models.Finding{hardeningFinding(r.ID(), ctx, ctx.Host.SSHD.Path,
		"password_auth", "Disable PasswordAuthentication in favor of keys", models.SeverityMedium,
		fmt.Sprintf("%s contains %q.", ctx.Host.SSHD.Path, sshdPasswordAuthOn))}
}

func hardeningFinding(ruleID string, ctx RuleContext, path, key, recommendation string, sev models.Severity, explanation string) models.Finding {
	return models.Finding{
		ID:             fmt.Sprintf("%s-%s", ruleID, key),
		RuleID:         ruleID,
		Tool:           ctx.Tool,
		ResourceID:     key,
		ResourceType:   models.ResourceConfigSetting,
		Source:         path,
		Category:       key,
		Detail:         recommendation,
		Severity:       sev,
		Explanation:    explanation,
		Recommendation: recommendation,
		DetectedAt:     time.Now().UTC(),
	}
}
