package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

func iamFinding(idx, category, detail string, qualified bool) models.Finding {
	return models.Finding{
		ResourceID:   idx,
		ResourceType: models.ResourceIAMStatement,
		Source:       "data.aws_iam_policy_document.admin",
		Category:     category,
		Detail:       detail,
		Metadata:     map[string]any{"qualified": qualified},
	}
}

func TestTuple(t *testing.T) {
	tests := []struct {
		name string
		f    models.Finding
		want string
	}{
		{
			"iam",
			iamFinding("0", "Overly permissive Action", "*", false),
			"(0, 'Overly permissive Action', '*')",
		},
		{
			"iam qualified",
			iamFinding("2", "Overly permissive Resource", "arn:aws:s3:::*", true),
			"('data.aws_iam_policy_document.admin', 2, 'Overly permissive Resource', 'arn:aws:s3:::*')",
		},
		{
			"hardening",
			models.Finding{ResourceType: models.ResourceConfigSetting, ResourceID: "ip_forward", Category: "ip_forward", Detail: "Disable IP forwarding unless required"},
			"('ip_forward', 'Disable IP forwarding unless required')",
		},
		{
			"web",
			models.Finding{ResourceType: models.ResourceWebFile, ResourceID: "site/index.html", Category: "InlineScript", Detail: "Inline <script> found"},
			"('site/index.html', 'InlineScript', 'Inline <script> found')",
		},
		{
			"telemetry row",
			models.Finding{ResourceType: models.ResourceTelemetryRow, ResourceID: "17", Category: "Anomaly", Detail: "cpu=99"},
			"(17, 'Anomaly', 'cpu=99')",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tuple(tt.f); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"plain":        `'plain'`,
		"it's":         `"it's"`,
		`both ' and "`: `'both \' and "'`,
		"back\\slash":  `'back\\slash'`,
		"line\nbreak":  `'line\nbreak'`,
		"tab\there":    `'tab\there'`,
		"bell\a":       `'bell\x07'`,
	}
	for in, want := range tests {
		if got := quote(in); got != want {
			t.Errorf("quote(%q): got %s; want %s", in, got, want)
		}
	}
}

func TestRenderText_Layouts(t *testing.T) {
	finding := iamFinding("0", "Overly permissive Action", "*", false)
	tests := []struct {
		name     string
		findings []models.Finding
		layout   TextLayout
		want     string
	}{
		{"iam empty", nil, IAMLayout, "No critical findings.\n"},
		{"iam findings", []models.Finding{finding}, IAMLayout, "Findings:\n(0, 'Overly permissive Action', '*')\n"},
		{"hardening empty", nil, HardeningLayout, "No recommendations - config looks good.\n"},
		{"web empty", nil, WebLayout, "No issues found.\n"},
		{"no header", []models.Finding{finding}, WebLayout, "(0, 'Overly permissive Action', '*')\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderText(&buf, tt.findings, tt.layout); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q; want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteText_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "vuln_report.txt")
	if err := WriteText(path, nil, WebLayout); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "No issues found.\n" {
		t.Errorf("got %q", data)
	}
}
