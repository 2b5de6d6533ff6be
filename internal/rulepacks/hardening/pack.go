// Package hardening provides the Linux hardening rule pack.
package hardening

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"

// New returns the hardening rule pack. sysctl rules come first, then sshd.
func New() []rules.Rule {
	return []rules.Rule{
		rules.HardenIPForwardRule{},       // MEDIUM: net.ipv4.ip_forward = 1
		rules.HardenRPFilterMissingRule{}, // LOW:    rp_filter not set
		rules.HardenRootLoginRule{},       // HIGH:   PermitRootLogin yes
		rules.HardenPasswordAuthRule{},    // MEDIUM: PasswordAuthentication yes
	}
}
