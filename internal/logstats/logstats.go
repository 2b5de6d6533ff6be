// Package logstats aggregates network event logs per source IP.
package logstats

import (
	"sort"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// FailedLoginEvent is the event value counted as a failed login.
const FailedLoginEvent = "failed_login"

// CountByIP returns the number of events per source IP for which keep
// returns true, ordered by source IP ascending. IPs with no kept event are
// omitted, as are events without a source IP. A nil keep counts every event.
func CountByIP(events []models.LogEvent, keep func(models.LogEvent) bool) []models.IPCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.SourceIP == "" || (keep != nil && !keep(e)) {
			continue
		}
		counts[e.SourceIP]++
	}
	out := make([]models.IPCount, 0, len(counts))
	for ip, n := range counts {
		out = append(out, models.IPCount{SourceIP: ip, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceIP < out[j].SourceIP })
	return out
}

// FailuresByIP counts failed_login events per source IP.
func FailuresByIP(events []models.LogEvent) []models.IPCount {
	return CountByIP(events, func(e models.LogEvent) bool { return e.Event == FailedLoginEvent })
}

// TopFailures keeps the entries of failures whose count is strictly greater
// than minFailures, preserving order.
func TopFailures(failures []models.IPCount, minFailures int) []models.IPCount {
	var out []models.IPCount
	for _, f := range failures {
		if f.Count > minFailures {
			out = append(out, f)
		}
	}
	return out
}

// TopSources returns up to n source IPs by total event count, highest first.
// Ties are broken by source IP ascending so the result is deterministic.
func TopSources(events []models.LogEvent, n int) []models.IPCount {
	all := CountByIP(events, nil)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}
