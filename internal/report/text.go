// Package report writes tool artifacts: plain text finding reports, CSV
// summaries, the JSON audit report and the top-sources bar chart.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// TextLayout controls the framing of a text report.
type TextLayout struct {
	// Header is written on its own line before the findings, if set.
	Header string
	// Empty is the whole report when there are no findings.
	Empty string
}

var (
	IAMLayout       = TextLayout{Header: "Findings:", Empty: "No critical findings."}
	HardeningLayout = TextLayout{Empty: "No recommendations - config looks good."}
	WebLayout       = TextLayout{Empty: "No issues found."}
)

// WriteText writes findings to path, one tuple per line, creating parent
// directories as needed.
func WriteText(path string, findings []models.Finding, layout TextLayout) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := RenderText(f, findings, layout); err != nil {
		f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}

// RenderText writes the text report for findings to w.
func RenderText(w io.Writer, findings []models.Finding, layout TextLayout) error {
	bw := bufio.NewWriter(w)
	if len(findings) == 0 {
		fmt.Fprintln(bw, layout.Empty)
		return bw.Flush()
	}
	if layout.Header != "" {
		fmt.Fprintln(bw, layout.Header)
	}
	for _, f := range findings {
		fmt.Fprintln(bw, Tuple(f))
	}
	return bw.Flush()
}

// Tuple renders a finding as a parenthesised tuple of its location, category
// and detail, for example (0, 'Overly permissive Action', '*').
func Tuple(f models.Finding) string {
	var parts []string
	switch f.ResourceType {
	case models.ResourceIAMStatement:
		if q, _ := f.Metadata["qualified"].(bool); q {
			parts = append(parts, quote(f.Source))
		}
		parts = append(parts, intOrQuoted(f.ResourceID))
	case models.ResourceConfigSetting:
		// The category already names the setting.
	case models.ResourceTelemetryRow:
		parts = append(parts, intOrQuoted(f.ResourceID))
	default:
		parts = append(parts, quote(f.ResourceID))
	}
	parts = append(parts, quote(f.Category), quote(f.Detail))
	return "(" + strings.Join(parts, ", ") + ")"
}

func intOrQuoted(s string) string {
	if _, err := strconv.Atoi(s); err == nil {
		return s
	}
	return quote(s)
}

// quote renders s as a single-quoted string literal, switching to double
// quotes when s contains a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r) && r > 0x7f:
			if r <= 0xffff {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
