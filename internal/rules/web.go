package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

var (
	evalCallPattern = regexp.MustCompile(`eval\(`)
	sqlPattern      = regexp.MustCompile(`(?i)(SELECT .* FROM|INSERT INTO)`)
)

// WebInlineScriptRule flags HTML files that contain a bare <script> tag and
// no src= attribute anywhere in the file.
type WebInlineScriptRule struct{}

func (r WebInlineScriptRule) ID() string   { return "WEB_INLINE_SCRIPT" }
func (r WebInlineScriptRule) Name() string { return "Inline Script Block" }

func (r WebInlineScriptRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil {
		return nil
	}
	if !strings.Contains(f.Content, "<script>") || strings.Contains(f.Content, "src=") {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "InlineScript", "Inline <script> found", models.SeverityMedium,
		"Inline <script> blocks can increase XSS risk if they operate on untrusted input.",
		"Move scripts to external files and enforce a Content-Security-Policy without 'unsafe-inline'.")}
}

// WebInnerHTMLRule flags HTML files that mention innerHTML.
type WebInnerHTMLRule struct{}

func (r WebInnerHTMLRule) ID() string   { return "WEB_INNER_HTML" }
func (r WebInnerHTMLRule) Name() string { return "innerHTML Usage" }

func (r WebInnerHTMLRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil || !strings.Contains(f.Content, "innerHTML") {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "DOMAssign", "innerHTML usage detected", models.SeverityHigh,
		"Assigning HTML via innerHTML can introduce XSS if the content is not sanitized.",
		"Use textContent or a sanitizer before inserting markup.")}
}

// WebEvalRule flags JavaScript files that call eval().
type WebEvalRule struct{}

func (r WebEvalRule) ID() string   { return "WEB_EVAL_USE" }
func (r WebEvalRule) Name() string { return "eval() Usage" }

func (r WebEvalRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileJS)
	if f == nil || !evalCallPattern.MatchString(f.Content) {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "EvalUse", "eval() usage", models.SeverityHigh,
		"eval() executes strings as code and is dangerous.",
		"Replace eval() with JSON.parse or explicit dispatch.")}
}

// WebSQLInJSRule flags JavaScript files that contain SQL-like statements,
// a sign of client-side query building.
type WebSQLInJSRule struct{}

func (r WebSQLInJSRule) ID() string   { return "WEB_SQL_IN_JS" }
func (r WebSQLInJSRule) Name() string { return "SQL-like String in JavaScript" }

func (r WebSQLInJSRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileJS)
	if f == nil {
		return nil
	}
	m := sqlPattern.FindString(f.Content)
	if m == "" {
		return nil
	}
	finding := webFinding(r.ID(), ctx, "SQLInJs", "SQL-like string found in JS", models.SeverityMedium,
		"SQL-like strings may indicate client-side concatenation of queries.",
		"Build queries server-side with parameterized statements.")
	finding.Metadata = map[string]any{"excerpt": excerpt(m, 140)}
	return []models.Finding{finding}
}

// webFileOf returns ctx.WebFile when it is of the given kind.
func webFileOf(ctx RuleContext, kind models.WebFileKind) *models.WebFile {
	if ctx.WebFile == nil || ctx.WebFile.Kind != kind {
		return nil
	}
	return ctx.WebFile
}

func webFinding(ruleID string, ctx RuleContext, category, detail string, sev models.Severity, explanation, recommendation string) models.Finding {
	path := ctx.WebFile.Path
	return models.Finding{
		ID:             fmt.Sprintf("%s-%s", ruleID, path),
		RuleID:         ruleID,
		Tool:           ctx.Tool,
		ResourceID:     path,
		ResourceType:   models.ResourceWebFile,
		Source:         path,
		Category:       category,
		Detail:         detail,
		Severity:       sev,
		Explanation:    explanation,
		Recommendation: recommendation,
		DetectedAt:     time.Now().UTC(),
	}
}

// excerpt shortens s to at most n runes, appending "..." when cut.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
