package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestWriteIPCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "threat_summary.csv")
	counts := []models.IPCount{{SourceIP: "10.0.0.9", Count: 12}, {SourceIP: "10.0.0.1", Count: 3}}
	if err := WriteIPCounts(path, "count", counts); err != nil {
		t.Fatalf("WriteIPCounts: %v", err)
	}
	want := "source_ip,count\n10.0.0.9,12\n10.0.0.1,3\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestWriteIPCounts_EmptyHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_logins.csv")
	if err := WriteIPCounts(path, "fail_count", nil); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "source_ip,fail_count\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteAnomalies(t *testing.T) {
	data := &models.TelemetryData{
		Header:    []string{"host", "cpu", "mem", "net_in", "net_out"},
		Records:   [][]string{{"a", "1", "2", "3", "4"}, {"b", "99", "98", "1e6", "2e6"}, {"c", "1", "2", "3", "5"}},
		Anomalous: []bool{false, true, false},
	}
	path := filepath.Join(t.TempDir(), "anomalies.csv")
	if err := WriteAnomalies(path, data); err != nil {
		t.Fatalf("WriteAnomalies: %v", err)
	}
	want := "host,cpu,mem,net_in,net_out,anomaly\nb,99,98,1e6,2e6,True\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q; want %q", got, want)
	}
	if len(data.Header) != 5 {
		t.Error("WriteAnomalies must not modify the input header")
	}
}
