package files

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02/Jan/2006:15:04:05 -0700",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTimestamp parses s with the first matching layout. Bare integers are
// Unix seconds. Times without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// LoadEventLog reads a network event log CSV with the columns timestamp,
// source_ip and event. Other columns are ignored. An unparseable timestamp
// is an error; an empty one is left as the zero time.
func LoadEventLog(path string) (*models.LogData, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idx, err := t.require(path, "timestamp", "source_ip", "event")
	if err != nil {
		return nil, err
	}

	data := &models.LogData{Path: path, Events: make([]models.LogEvent, 0, len(t.records))}
	for i, rec := range t.records {
		var ts time.Time
		if raw := rec[idx[0]]; strings.TrimSpace(raw) != "" {
			ts, err = ParseTimestamp(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
			}
		}
		data.Events = append(data.Events, models.LogEvent{
			Timestamp: ts,
			SourceIP:  rec[idx[1]],
			Event:     rec[idx[2]],
		})
	}
	return data, nil
}
