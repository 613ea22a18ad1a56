// Package power loads per-line transmission output exports and reduces them
// to daily sums.
package power

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pwyang/riverwatt/services/api/analysis"
	"github.com/pwyang/riverwatt/services/api/registry"
)

// Loader reads XLSX power exports described by the line registry.
type Loader struct {
	reg *registry.Registry
}

// NewLoader builds a loader over the given registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{reg: reg}
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006/1/2", "01-02-06"}

var timeLayouts = []string{"15:04:05", "15:04", "15点"}

// LoadDaily parses the export for one line, combines the date and
// time-of-day columns into timestamps, and sums the configured power column
// per calendar day. Rows with an unparseable date or a non-numeric power
// value are skipped.
func (l *Loader) LoadDaily(lineID string) (analysis.DailySeries, error) {
	line, ok := l.reg.Line(lineID)
	if !ok {
		return nil, fmt.Errorf("power source: unknown line %q", lineID)
	}

	f, err := excelize.OpenFile(line.File)
	if err != nil {
		return nil, fmt.Errorf("power source %s (%s): %w", line.ID, line.File, err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("power source %s (%s): %w", line.ID, line.File, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("power source %s (%s): no data rows", line.ID, line.File)
	}

	dateIdx, timeIdx, powerIdx := -1, -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case line.DateColumn:
			dateIdx = i
		case line.TimeColumn:
			timeIdx = i
		case line.Column:
			powerIdx = i
		}
	}
	if dateIdx < 0 || timeIdx < 0 || powerIdx < 0 {
		return nil, fmt.Errorf("power source %s (%s): missing column %q, %q or %q",
			line.ID, line.File, line.DateColumn, line.TimeColumn, line.Column)
	}

	samples := make([]analysis.Sample, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if powerIdx >= len(row) || dateIdx >= len(row) {
			continue
		}
		day, ok := parseDate(row[dateIdx])
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[powerIdx]), 64)
		if err != nil {
			continue
		}
		ts := day
		if timeIdx < len(row) {
			if tod, ok := parseTimeOfDay(row[timeIdx]); ok {
				ts = day.Add(tod)
			}
		}
		samples = append(samples, analysis.Sample{Timestamp: ts, Value: value})
	}

	return analysis.AggregateDaily(samples, analysis.ReduceSum), nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimeOfDay(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}
