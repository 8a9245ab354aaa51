package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"royalpalm-dashboard/internal/models"
)

// WriteCSV serializes records with a header row and no index column. The
// month_year label is appended after the source columns.
func WriteCSV(w io.Writer, columns []string, records []models.Record) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, columns...), ColumnMonthYear)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, r := range records {
		n := copy(row, r.Values)
		clear(row[n:len(columns)])
		row[len(columns)] = r.MonthYear
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r.Row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
