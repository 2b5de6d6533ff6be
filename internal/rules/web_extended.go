package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

var (
	documentWritePattern = regexp.MustCompile(`(?i)document\.write`)
	inlineEventPattern   = regexp.MustCompile(`(?i)\son[a-z]+\s*=\s*['"][^'"]+['"]`)
	javascriptURIPattern = regexp.MustCompile(`(?i)(href|src)\s*=\s*['"]\s*javascript:`)
	functionCtorPattern  = regexp.MustCompile(`(?i)new\s+Function\s*\(`)
	jsInnerHTMLPattern   = regexp.MustCompile(`(?i)innerHTML\s*(=|\+)`)
	dataURIImagePattern  = regexp.MustCompile(`(?i)<img\b[^>]*\ssrc\s*=\s*['"]?\s*data:[^>]*>`)
)

// WebDocumentWriteRule flags HTML that calls document.write or
// document.writeln.
type WebDocumentWriteRule struct{}

func (r WebDocumentWriteRule) ID() string   { return "WEB_DOCUMENT_WRITE" }
func (r WebDocumentWriteRule) Name() string { return "document.write Usage" }

func (r WebDocumentWriteRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil || !documentWritePattern.MatchString(f.Content) {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "DocumentWrite", "document.write usage detected", models.SeverityMedium,
		"document.write may produce injection points.",
		"Build DOM nodes with createElement and textContent.")}
}

// WebInlineEventHandlerRule flags inline on* event handler attributes. Each
// handler produces its own finding.
type WebInlineEventHandlerRule struct{}

func (r WebInlineEventHandlerRule) ID() string   { return "WEB_INLINE_EVENT_HANDLER" }
func (r WebInlineEventHandlerRule) Name() string { return "Inline Event Handler" }

func (r WebInlineEventHandlerRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil {
		return nil
	}
	var findings []models.Finding
	for i, m := range inlineEventPattern.FindAllString(f.Content, -1) {
		finding := webFinding(r.ID(), ctx, "InlineEventHandler", excerpt(strings.TrimLeft(m, " \t\r\n"), 120), models.SeverityLow,
			"Inline event handlers can contain dynamic code.",
			"Attach handlers with addEventListener from an external script.")
		finding.ID = fmt.Sprintf("%s-%d", finding.ID, i)
		findings = append(findings, finding)
	}
	return findings
}

// WebJavascriptURIRule flags href or src attributes using javascript: URIs.
type WebJavascriptURIRule struct{}

func (r WebJavascriptURIRule) ID() string   { return "WEB_JAVASCRIPT_URI" }
func (r WebJavascriptURIRule) Name() string { return "javascript: URI" }

func (r WebJavascriptURIRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil || !javascriptURIPattern.MatchString(f.Content) {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "JavascriptURI", "javascript: URI detected", models.SeverityHigh,
		"javascript: URIs execute code when followed.",
		"Replace javascript: links with buttons wired through addEventListener.")}
}

// WebFunctionConstructorRule flags JavaScript that builds functions from
// strings with new Function(...).
type WebFunctionConstructorRule struct{}

func (r WebFunctionConstructorRule) ID() string   { return "WEB_FUNCTION_CONSTRUCTOR" }
func (r WebFunctionConstructorRule) Name() string { return "Function Constructor Usage" }

func (r WebFunctionConstructorRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileJS)
	if f == nil || !functionCtorPattern.MatchString(f.Content) {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "FunctionConstructor", "Function constructor usage detected", models.SeverityHigh,
		"The Function constructor executes string code.",
		"Define functions statically.")}
}

// WebInnerHTMLInJSRule flags scripts that assign or append to innerHTML.
type WebInnerHTMLInJSRule struct{}

func (r WebInnerHTMLInJSRule) ID() string   { return "WEB_INNER_HTML_JS" }
func (r WebInnerHTMLInJSRule) Name() string { return "innerHTML Assignment in JS" }

func (r WebInnerHTMLInJSRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileJS)
	if f == nil || !jsInnerHTMLPattern.MatchString(f.Content) {
		return nil
	}
	return []models.Finding{webFinding(r.ID(), ctx, "InnerHTMLInJs", "innerHTML assignment in JS", models.SeverityHigh,
		"Assigning to innerHTML in scripts is risky without sanitization.",
		"Use textContent, or sanitize the markup before assigning it.")}
}

// WebDataURIImageRule reports img tags whose src is a data: URI, one
// finding per tag.
type WebDataURIImageRule struct{}

func (r WebDataURIImageRule) ID() string   { return "WEB_DATA_URI_IMAGE" }
func (r WebDataURIImageRule) Name() string { return "data: URI Image" }

func (r WebDataURIImageRule) Evaluate(ctx RuleContext) []models.Finding {
	f := webFileOf(ctx, models.WebFileHTML)
	if f == nil {
		return nil
	}
	var findings []models.Finding
	for i, m := range dataURIImagePattern.FindAllString(f.Content, -1) {
		finding := webFinding(r.ID(), ctx, "DataUriImage", excerpt(m, 200), models.SeverityInfo,
			"Image uses a data: URI; review whether the content is user-controlled.",
			"Serve images from a trusted origin.")
		finding.ID = fmt.Sprintf("%s-%d", finding.ID, i)
		findings = append(findings, finding)
	}
	return findings
}
