// Package export renders ranking tables as flat delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pwyang/riverwatt/services/api/analysis"
)

// utf8BOM makes spreadsheet tools decode regional text correctly.
const utf8BOM = "\ufeff"

const dateLayout = "2006-01-02"

var header = []string{
	"rank", "river_name", "samples", "pearson_r", "r2", "p_value", "slope",
	"first_date", "last_date",
}

// WriteRanking writes the ranking table as CSV, prefixed with a UTF-8 BOM.
func WriteRanking(w io.Writer, rows []analysis.RankedRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.River,
			strconv.Itoa(row.N),
			formatFloat(row.PearsonR),
			formatFloat(row.R2),
			formatFloat(row.PearsonP),
			formatFloat(row.Slope),
			row.FirstDate.Format(dateLayout),
			row.LastDate.Format(dateLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseRanking reads a table written by WriteRanking back into rows.
func ParseRanking(r io.Reader) ([]analysis.RankedRow, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ranking csv: empty table")
	}
	records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	if len(records[0]) != len(header) || records[0][0] != header[0] {
		return nil, fmt.Errorf("ranking csv: unexpected header %v", records[0])
	}

	rows := make([]analysis.RankedRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("ranking csv: row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (analysis.RankedRow, error) {
	var row analysis.RankedRow
	if len(rec) != len(header) {
		return row, fmt.Errorf("want %d fields, got %d", len(header), len(rec))
	}

	var err error
	if row.Rank, err = strconv.Atoi(rec[0]); err != nil {
		return row, err
	}
	row.River = rec[1]
	if row.N, err = strconv.Atoi(rec[2]); err != nil {
		return row, err
	}
	if row.PearsonR, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return row, err
	}
	if row.R2, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return row, err
	}
	if row.PearsonP, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return row, err
	}
	if row.Slope, err = strconv.ParseFloat(rec[6], 64); err != nil {
		return row, err
	}
	if row.FirstDate, err = time.ParseInLocation(dateLayout, rec[7], time.UTC); err != nil {
		return row, err
	}
	if row.LastDate, err = time.ParseInLocation(dateLayout, rec[8], time.UTC); err != nil {
		return row, err
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
