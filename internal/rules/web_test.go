package rules

import (
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

func webCtx(path string, kind models.WebFileKind, content string) RuleContext {
	return RuleContext{
		Tool:    "web",
		WebFile: &models.WebFile{Path: path, Kind: kind, Content: content},
	}
}

func evaluateCoreWeb(ctx RuleContext) []models.Finding {
	var out []models.Finding
	for _, r := range []Rule{WebInlineScriptRule{}, WebInnerHTMLRule{}, WebEvalRule{}, WebSQLInJSRule{}} {
		out = append(out, r.Evaluate(ctx)...)
	}
	return out
}

func TestWebInlineScriptRule_NoSrcAnywhere(t *testing.T) {
	ctx := webCtx("index.html", models.WebFileHTML, "<html><script>alert(1)</script></html>")
	findings := WebInlineScriptRule{}.Evaluate(ctx)
	if len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
	if findings[0].Category != "InlineScript" || findings[0].ResourceID != "index.html" {
		t.Errorf("unexpected finding %+v", findings[0])
	}
}

func TestWebInlineScriptRule_SrcAnywhereSuppresses(t *testing.T) {
	ctx := webCtx("index.html", models.WebFileHTML, `<script>x()</script><img src="a.png">`)
	if findings := (WebInlineScriptRule{}).Evaluate(ctx); len(findings) != 0 {
		t.Errorf("src= anywhere in the file must suppress the finding, got %v", findings)
	}
}

func TestWebInlineScriptRule_ScriptWithAttributesIgnored(t *testing.T) {
	ctx := webCtx("index.html", models.WebFileHTML, `<script type="module">x()</script>`)
	if findings := (WebInlineScriptRule{}).Evaluate(ctx); len(findings) != 0 {
		t.Errorf("only the literal <script> tag is matched, got %v", findings)
	}
}

func TestWebRules_KindDispatch(t *testing.T) {
	// eval in HTML and innerHTML in JS are not reported by the core rules.
	html := webCtx("a.html", models.WebFileHTML, "eval(x)")
	js := webCtx("a.js", models.WebFileJS, "el.innerHTML = x; <script>")
	if got := evaluateCoreWeb(html); len(got) != 0 {
		t.Errorf("html: want no findings, got %v", categories(got))
	}
	if got := evaluateCoreWeb(js); len(got) != 0 {
		t.Errorf("js: want no findings, got %v", categories(got))
	}
}

func TestWebRules_JSFindings(t *testing.T) {
	ctx := webCtx("app.js", models.WebFileJS, "eval(input);\nvar q = \"select name from users\";\n")
	got := categories(evaluateCoreWeb(ctx))
	if len(got) != 2 || got[0] != "EvalUse" || got[1] != "SQLInJs" {
		t.Fatalf("got %v; want [EvalUse SQLInJs]", got)
	}
}

func TestWebSQLInJSRule_InsertInto(t *testing.T) {
	ctx := webCtx("app.js", models.WebFileJS, "db.run('INSERT INTO t VALUES (1)')")
	if findings := (WebSQLInJSRule{}).Evaluate(ctx); len(findings) != 1 {
		t.Fatalf("want 1 finding, got %d", len(findings))
	}
}

func TestWebSQLInJSRule_SelectAcrossLinesNotMatched(t *testing.T) {
	ctx := webCtx("app.js", models.WebFileJS, "SELECT a\nFROM t")
	if findings := (WebSQLInJSRule{}).Evaluate(ctx); len(findings) != 0 {
		t.Errorf("'.' does not cross newlines, got %v", findings)
	}
}

func TestWebRules_Idempotent(t *testing.T) {
	ctx := webCtx("page.html", models.WebFileHTML, "<script>document.body.innerHTML = x</script>")
	first := categories(evaluateCoreWeb(ctx))
	second := categories(evaluateCoreWeb(ctx))
	if len(first) != len(second) {
		t.Fatalf("runs differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestWebInlineEventHandlerRule_OnePerMatch(t *testing.T) {
	ctx := webCtx("a.html", models.WebFileHTML, `<a onclick="go()">x</a><img onerror='bad()'>`)
	findings := WebInlineEventHandlerRule{}.Evaluate(ctx)
	if len(findings) != 2 {
		t.Fatalf("want 2 findings, got %d", len(findings))
	}
	if findings[0].Detail != `onclick="go()"` {
		t.Errorf("detail: got %q", findings[0].Detail)
	}
	if findings[0].ID == findings[1].ID {
		t.Error("finding IDs must be unique per match")
	}
}

func TestWebExtendedRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		ctx  RuleContext
		want int
	}{
		{"document.write", WebDocumentWriteRule{}, webCtx("a.html", models.WebFileHTML, "document.writeln('x')"), 1},
		{"javascript uri", WebJavascriptURIRule{}, webCtx("a.html", models.WebFileHTML, `<a href=" javascript:void(0)">`), 1},
		{"plain link", WebJavascriptURIRule{}, webCtx("a.html", models.WebFileHTML, `<a href="/home">`), 0},
		{"function ctor", WebFunctionConstructorRule{}, webCtx("a.js", models.WebFileJS, "var f = new Function('a', 'return a')"), 1},
		{"function ctor in html", WebFunctionConstructorRule{}, webCtx("a.html", models.WebFileHTML, "new Function('x')"), 0},
		{"innerHTML assign in js", WebInnerHTMLInJSRule{}, webCtx("a.js", models.WebFileJS, "el.innerHTML = msg;"), 1},
		{"innerHTML append in js", WebInnerHTMLInJSRule{}, webCtx("a.js", models.WebFileJS, "el.innerHTML += row"), 1},
		{"innerHTML read in js", WebInnerHTMLInJSRule{}, webCtx("a.js", models.WebFileJS, "var s = el.innerHTML;"), 0},
		{"innerHTML in html is core", WebInnerHTMLInJSRule{}, webCtx("a.html", models.WebFileHTML, "el.innerHTML = x"), 0},
		{"data uri images", WebDataURIImageRule{}, webCtx("a.html", models.WebFileHTML, `<img alt="a" src="data:image/png;base64,AA"><IMG SRC='DATA:image/gif;base64,R0'>`), 2},
		{"remote image", WebDataURIImageRule{}, webCtx("a.html", models.WebFileHTML, `<img src="/logo.png" data-x="data:">`), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Evaluate(tt.ctx); len(got) != tt.want {
				t.Errorf("want %d findings, got %d", tt.want, len(got))
			}
		})
	}
}
