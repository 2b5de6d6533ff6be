package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestWriteBarChart_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "top_ips.png")
	counts := []models.IPCount{{SourceIP: "10.0.0.1", Count: 40}, {SourceIP: "10.0.0.2", Count: 7}}
	if err := WriteBarChart(path, counts, "Event Count"); err != nil {
		t.Fatalf("WriteBarChart: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("output is not a PNG file")
	}
}

func TestWriteBarChart_NoCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_ips.png")
	if err := WriteBarChart(path, nil, "Event Count"); err != nil {
		t.Fatalf("WriteBarChart: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}
