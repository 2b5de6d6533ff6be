package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// table is a CSV file read with a header row.
type table struct {
	header  []string
	columns map[string]int
	records [][]string
}

// readTable reads path as CSV with a header row. Short records are padded
// with empty cells to the header width.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: file is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &table{header: header, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("read %s: line %d has %d fields, header has %d", path, line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

// require returns the column indexes of names, or an error naming the first
// missing column.
func (t *table) require(path string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		col, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
		idx[i] = col
	}
	return idx, nil
}
