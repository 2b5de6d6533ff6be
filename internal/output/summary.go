package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// RenderSummary writes a compact view of report to w: the inputs, the total
// finding count, the per-severity breakdown and the written artifacts.
//
// It reuses the already-computed AuditReport; no engine logic is duplicated.
func RenderSummary(w io.Writer, report *models.AuditReport) {
	s := report.Summary

	fmt.Fprintf(w, "Tool:     %s\n", report.Tool)
	fmt.Fprintf(w, "Inputs:   %s\n", strings.Join(report.Inputs, ", "))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:  %d\n", s.TotalFindings)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Severity Breakdown")
	fmt.Fprintf(w, "  %-10s  %d\n", "CRITICAL", s.CriticalFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "HIGH", s.HighFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "MEDIUM", s.MediumFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "LOW", s.LowFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "INFO", s.InfoFindings)

	if len(report.Artifacts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Artifacts")
	for _, a := range report.Artifacts {
		fmt.Fprintf(w, "  %s\n", a)
	}
}
