package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

const ansiReset = "\033[0m"

// severityColors maps a severity to its ANSI prefix. INFO stays uncoloured.
var severityColors = map[models.Severity]string{
	models.SeverityCritical: "\033[1;31m",
	models.SeverityHigh:     "\033[0;31m",
	models.SeverityMedium:   "\033[0;33m",
	models.SeverityLow:      "\033[0;34m",
}

// TableOptions controls the columns of RenderTable and whether severity is
// coloured.
type TableOptions struct {
	// Colored wraps severity labels with ANSI codes.
	Colored bool

	// IncludeSource adds a SOURCE column, for runs that read several inputs
	// such as Terraform files or live IAM policies.
	IncludeSource bool

	// LocationLabel heads the first column. Defaults to "LOCATION".
	LocationLabel string
}

// ColorSeverity returns sev as a string, wrapped in ANSI codes when colored.
func ColorSeverity(sev models.Severity, colored bool) string {
	code, ok := severityColors[sev]
	if !colored || !ok {
		return string(sev)
	}
	return code + string(sev) + ansiReset
}

// ShortenMessage truncates msg to at most limit runes, ending in "..." when
// truncated. limit is raised to 4 so the ellipsis always fits.
func ShortenMessage(msg string, limit int) string {
	limit = max(limit, 4)
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit-3]) + "..."
}

// column is one fixed-width table column. The last column is never padded.
type column struct {
	header   string
	width    int
	severity bool
	cell     func(models.Finding) string
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}

func (o TableOptions) columns() []column {
	label := o.LocationLabel
	if label == "" {
		label = "LOCATION"
	}
	cols := []column{{header: label, width: 30, cell: func(f models.Finding) string { return clip(f.ResourceID, 30) }}}
	if o.IncludeSource {
		cols = append(cols, column{header: "SOURCE", width: 36, cell: func(f models.Finding) string { return clip(f.Source, 36) }})
	}
	return append(cols,
		column{header: "SEVERITY", width: 10, severity: true, cell: func(f models.Finding) string { return string(f.Severity) }},
		column{header: "RULE", width: 26, cell: func(f models.Finding) string { return clip(f.RuleID, 26) }},
		column{header: "CATEGORY", width: 26, cell: func(f models.Finding) string { return clip(f.Category, 26) }},
		column{header: "DETAIL", width: 50, cell: func(f models.Finding) string { return ShortenMessage(f.Detail, 50) }},
	)
}

// RenderTable writes findings to w as a fixed-width table, one row per
// finding in input order:
//
//	LOCATION  [SOURCE]  SEVERITY  RULE  CATEGORY  DETAIL
//
// An empty slice prints "No findings." and no header.
func RenderTable(w io.Writer, findings []models.Finding, opts TableOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	cols := opts.columns()
	var header strings.Builder
	ruleWidth := 0
	for i, c := range cols {
		writeCell(&header, c, i == len(cols)-1, c.header, c.header)
		ruleWidth += c.width + 2
	}
	fmt.Fprintln(w, header.String())
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth-2))

	for _, f := range findings {
		var row strings.Builder
		for i, c := range cols {
			plain := c.cell(f)
			shown := plain
			if c.severity {
				shown = ColorSeverity(f.Severity, opts.Colored)
			}
			writeCell(&row, c, i == len(cols)-1, plain, shown)
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}
}

// writeCell appends shown padded to the visible width of plain, so ANSI
// codes in shown do not shift later columns.
func writeCell(b *strings.Builder, c column, last bool, plain, shown string) {
	if b.Len() > 0 {
		b.WriteString("  ")
	}
	b.WriteString(shown)
	if !last {
		b.WriteString(strings.Repeat(" ", max(c.width-len([]rune(plain)), 0)))
	}
}
