package files

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// missingValues are cells read as a missing number, which becomes 0. The
// set matches the default NA tokens of common CSV readers.
var missingValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "-NaN": true, "-nan": true,
	"1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// TelemetryFile loads a telemetry table from a CSV file.
type TelemetryFile struct {
	Path string
}

// LoadTelemetry implements the telemetry source used by the anomaly
// collector.
func (f TelemetryFile) LoadTelemetry(_ context.Context) (*models.TelemetryData, error) {
	t, err := readTable(f.Path)
	if err != nil {
		return nil, err
	}
	return TelemetryFromTable(f.Path, t.header, t.records)
}

// Describe returns the input path for report metadata.
func (f TelemetryFile) Describe() []string { return []string{f.Path} }

// TelemetryFromTable extracts the model features from a header and records.
// Every feature column must be present; missing cells are 0.
func TelemetryFromTable(source string, header []string, records [][]string) (*models.TelemetryData, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	idx := make([]int, len(models.TelemetryFeatures))
	for i, name := range models.TelemetryFeatures {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing required column %q", source, name)
		}
		idx[i] = col
	}

	data := &models.TelemetryData{
		Source:   source,
		Header:   header,
		Records:  records,
		Features: make([][]float64, len(records)),
	}
	for r, rec := range records {
		vec := make([]float64, len(idx))
		for j, col := range idx {
			var cell string
			if col < len(rec) {
				cell = strings.TrimSpace(rec[col])
			}
			if missingValues[cell] {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %q: %w", source, r+1, header[col], err)
			}
			vec[j] = v
		}
		data.Features[r] = vec
	}
	return data, nil
}
