package files

import (
	"context"
	"testing"
)

func TestTelemetryFile_MissingCellsAreZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "telemetry.csv",
		"host,cpu,mem,net_in,net_out\n"+
			"a,10.5,20,,300\n"+
			"b,NaN,1,2\n")
	data, err := TelemetryFile{Path: path}.LoadTelemetry(context.Background())
	if err != nil {
		t.Fatalf("LoadTelemetry: %v", err)
	}
	if len(data.Features) != 2 {
		t.Fatalf("want 2 rows, got %d", len(data.Features))
	}
	want := [][]float64{{10.5, 20, 0, 300}, {0, 1, 2, 0}}
	for i := range want {
		for j := range want[i] {
			if data.Features[i][j] != want[i][j] {
				t.Errorf("row %d feature %d: got %v; want %v", i, j, data.Features[i][j], want[i][j])
			}
		}
	}
	if len(data.Records[1]) != 5 {
		t.Errorf("short records are padded to the header width, got %v", data.Records[1])
	}
	if data.Header[0] != "host" {
		t.Errorf("header: %v", data.Header)
	}
}

func TestTelemetryFile_NATokens(t *testing.T) {
	tokens := []string{"n/a", "#N/A", "<NA>", "-nan", "NULL", "None", "-1.#IND", "#NA"}
	content := "cpu,mem,net_in,net_out\n"
	for _, tok := range tokens {
		content += "1," + tok + ",2,3\n"
	}
	data, err := TelemetryFile{Path: writeFile(t, t.TempDir(), "telemetry.csv", content)}.LoadTelemetry(context.Background())
	if err != nil {
		t.Fatalf("LoadTelemetry: %v", err)
	}
	for i, row := range data.Features {
		if row[1] != 0 {
			t.Errorf("%q: mem = %v; want 0", tokens[i], row[1])
		}
	}
}

func TestTelemetryFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"missing column", "cpu,mem,net_in\n1,2,3\n"},
		{"non numeric", "cpu,mem,net_in,net_out\nhigh,2,3,4\n"},
		{"too many fields", "cpu,mem,net_in,net_out\n1,2,3,4,5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "telemetry.csv", tt.content)
			if _, err := (TelemetryFile{Path: path}).LoadTelemetry(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}
