// Package web provides the web asset rule packs used by vuln-scanner.
package web

import "github.com/pankaj-dahiya-devops/secops-toolkit/internal/rules"

// New returns the default web rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		rules.WebInlineScriptRule{}, // MEDIUM: HTML <script> without src=
		rules.WebInnerHTMLRule{},    // HIGH:   HTML innerHTML
		rules.WebEvalRule{},         // HIGH:   JS eval(
		rules.WebSQLInJSRule{},      // MEDIUM: JS SQL-like string
	}
}

// Extended returns New() followed by the passive client-side checks enabled
// with --extended.
func Extended() []rules.Rule {
	return append(New(),
		rules.WebDocumentWriteRule{},       // MEDIUM: HTML document.write
		rules.WebInlineEventHandlerRule{},  // LOW:    HTML on*= attributes
		rules.WebJavascriptURIRule{},       // HIGH:   HTML javascript: URI
		rules.WebFunctionConstructorRule{}, // HIGH:   JS new Function(
		rules.WebInnerHTMLInJSRule{},       // HIGH:   JS innerHTML = / +=
		rules.WebDataURIImageRule{},        // INFO:   HTML <img src="data:...">
	)
}
