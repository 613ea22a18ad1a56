package power

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pwyang/riverwatt/services/api/registry"
)

func writeExport(t *testing.T, path string, header []string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func testRegistry(t *testing.T, file string) *registry.Registry {
	t.Helper()

	content := fmt.Sprintf(`
lines:
  - id: alpha
    name: Alpha HVDC
    file: %s
    column: alpha-actual
    date_column: date
    time_column: hour
    color: "#1f77b4"
`, file)
	path := filepath.Join(t.TempDir(), "lines.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestLoadDailySums(t *testing.T) {
	file := filepath.Join(t.TempDir(), "alpha.xlsx")
	writeExport(t, file,
		[]string{"date", "hour", "alpha-actual", "other"},
		[][]any{
			{"2021-01-01", "00:00", 100.5, "x"},
			{"2021-01-01", "12:00", 200.0, "x"},
			{"2021-01-02", "00:00", 50.0, "x"},
			{"2021-01-02", "12:00", "", "x"},    // blank power skipped
			{"bad-date", "12:00", 999.0, "x"},   // unparseable date skipped
			{"2021-01-03", "06:00", "n/a", "x"}, // non-numeric skipped
		})

	loader := NewLoader(testRegistry(t, file))
	series, err := loader.LoadDaily("alpha")
	if err != nil {
		t.Fatal(err)
	}

	if len(series) != 2 {
		t.Fatalf("days = %d, want 2: %v", len(series), series)
	}
	if series[0].Value != 300.5 {
		t.Errorf("day 1 sum = %v, want 300.5", series[0].Value)
	}
	if series[1].Value != 50.0 {
		t.Errorf("day 2 sum = %v, want 50", series[1].Value)
	}
}

func TestLoadDailyMissingColumn(t *testing.T) {
	file := filepath.Join(t.TempDir(), "alpha.xlsx")
	writeExport(t, file,
		[]string{"date", "hour", "wrong-column"},
		[][]any{{"2021-01-01", "00:00", 1.0}})

	loader := NewLoader(testRegistry(t, file))
	if _, err := loader.LoadDaily("alpha"); err == nil {
		t.Fatal("expected error for missing power column")
	}
}

func TestLoadDailyUnknownLine(t *testing.T) {
	file := filepath.Join(t.TempDir(), "alpha.xlsx")
	writeExport(t, file, []string{"date", "hour", "alpha-actual"}, nil)

	loader := NewLoader(testRegistry(t, file))
	if _, err := loader.LoadDaily("missing"); err == nil {
		t.Fatal("expected error for unknown line")
	}
}

func TestLoadDailyMissingFile(t *testing.T) {
	loader := NewLoader(testRegistry(t, filepath.Join(t.TempDir(), "absent.xlsx")))
	if _, err := loader.LoadDaily("alpha"); err == nil {
		t.Fatal("expected error for missing export file")
	}
}
