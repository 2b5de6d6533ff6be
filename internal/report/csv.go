package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// WriteIPCounts writes counts as a two column CSV: source_ip and countColumn.
func WriteIPCounts(path, countColumn string, counts []models.IPCount) error {
	rows := make([][]string, 0, len(counts)+1)
	rows = append(rows, []string{"source_ip", countColumn})
	for _, c := range counts {
		rows = append(rows, []string{c.SourceIP, strconv.Itoa(c.Count)})
	}
	return writeCSV(path, rows)
}

// WriteAnomalies writes the flagged rows of data with every original column
// and a trailing anomaly=True column.
func WriteAnomalies(path string, data *models.TelemetryData) error {
	header := append(append([]string(nil), data.Header...), "anomaly")
	rows := [][]string{header}
	for i, rec := range data.Records {
		if i >= len(data.Anomalous) || !data.Anomalous[i] {
			continue
		}
		rows = append(rows, append(append([]string(nil), rec...), "True"))
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
