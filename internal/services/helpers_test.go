package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

var sampleHeader = []any{"Investment Month", "Investment Year", "Land", "Unit", "Amount", "Investor Name"}

// sampleRows is ten records: seven inside the reporting window across three
// land types, two with the wrong year and one with a misspelled month.
var sampleRows = [][]any{
	{"July", 2024, "Residential", 1, 1000000, "Ada"},
	{"july", 2024, "Commercial", 2, "2,000,000", "Bola"},
	{"AUGUST", 2024, "Residential", 1, "abc", "Chidi"},
	{"September", 2024, "Farm", 3, 500000, "Dayo"},
	{"January", "2025", "Commercial", 1, 750000, "Efe"},
	{"January", 2025, "Residential", 2, 250000, "Funmi"},
	{"December", 2024, "Farm", 1, nil, "Gbenga"},
	{"July", 2023, "Residential", 1, 100, "Hauwa"},
	{"January", 2024, "Commercial", 1, 100, "Ike"},
	{"Sept", 2024, "Farm", 1, 100, "Jide"},
}

func writeWorkbook(t *testing.T, sheet string, header []any, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}

	all := append([][]any{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "portfolio.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	path := writeWorkbook(t, "PORTFOLIO", sampleHeader, sampleRows)
	ds, err := LoadWorkbook(context.Background(), path, "PORTFOLIO")
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	return ds
}

// datasetFromText builds a dataset from plain cell text without touching disk.
func datasetFromText(t *testing.T, rows [][]string) *Dataset {
	t.Helper()
	ds, err := parseRows(context.Background(), "PORTFOLIO", rows)
	if err != nil {
		t.Fatalf("parseRows() error = %v", err)
	}
	return ds
}
