package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"royalpalm-dashboard/internal/models"
)

const (
	ColumnMonth     = "investment_month"
	ColumnYear      = "investment_year"
	ColumnLand      = "land"
	ColumnUnit      = "unit"
	ColumnAmount    = "amount"
	ColumnMonthYear = "month_year"
)

var requiredColumns = []string{ColumnMonth, ColumnYear, ColumnLand, ColumnUnit}

var (
	ErrWorkbookNotFound = errors.New("workbook not found")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrEmptySheet       = errors.New("sheet has no header row")
	ErrMissingColumn    = errors.New("missing column")
)

type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q in sheet %q", e.Column, e.Sheet)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Loader produces a Dataset for a workbook sheet.
type Loader interface {
	Load(ctx context.Context, path, sheet string) (*Dataset, error)
}

// WorkbookLoader reads datasets straight from disk on every call.
type WorkbookLoader struct {
	logger *slog.Logger
}

func NewWorkbookLoader(logger *slog.Logger) *WorkbookLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookLoader{logger: logger}
}

func (l *WorkbookLoader) Load(ctx context.Context, path, sheet string) (*Dataset, error) {
	start := time.Now()
	l.logger.Info("processing workbook", "filename", path, "sheet", sheet)

	ds, err := LoadWorkbook(ctx, path, sheet)
	if err != nil {
		return nil, err
	}

	l.logger.Info("workbook processing complete",
		"records", len(ds.Records),
		"labeled", len(ds.Labeled()),
		"skipped", ds.Skipped(),
		"has_amount", ds.HasAmount,
		"duration", time.Since(start))
	return ds, nil
}

// LoadWorkbook reads sheet from the xlsx file at path and normalizes it.
func LoadWorkbook(ctx context.Context, path, sheet string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrWorkbookNotFound, err)
		}
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	ds, err := parseRows(ctx, sheet, rows)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// NormalizeColumn lowercases a header and replaces spaces with underscores.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func parseRows(ctx context.Context, sheet string, rows [][]string) (*Dataset, error) {
	headerRow := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	columns := make([]string, len(rows[headerRow]))
	index := make(map[string]int, len(columns))
	for i, name := range rows[headerRow] {
		columns[i] = NormalizeColumn(name)
		if _, seen := index[columns[i]]; !seen {
			index[columns[i]] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Sheet: sheet, Column: col}
		}
	}
	amountIdx, hasAmount := index[ColumnAmount]

	ds := &Dataset{
		Sheet:     sheet,
		Columns:   columns,
		HasAmount: hasAmount,
		LoadedAt:  time.Now(),
	}

	for i := headerRow + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blankRow(rows[i]) {
			continue
		}

		values := make([]string, len(columns))
		copy(values, rows[i])

		rec := models.Record{
			Row:       i + 1,
			Month:     strings.ToUpper(values[index[ColumnMonth]]),
			Year:      parseNumber(values[index[ColumnYear]]),
			Land:      strings.TrimSpace(values[index[ColumnLand]]),
			Unit:      strings.TrimSpace(values[index[ColumnUnit]]),
			UnitCount: parseNumber(values[index[ColumnUnit]]),
		}
		if hasAmount {
			rec.Amount = parseAmount(values[amountIdx])
		}
		rec.MonthYear, _ = LabelFor(rec.Month, rec.Year)

		values[index[ColumnMonth]] = rec.Month
		values[index[ColumnYear]] = formatNumber(rec.Year)
		if hasAmount {
			values[amountIdx] = formatAmount(rec.Amount)
		}
		rec.Values = values

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber coerces a cell to a number; anything unparseable is null.
func parseNumber(raw string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

var amountReplacer = strings.NewReplacer(",", "", "₦", "", "$", "", " ", "")

func parseAmount(raw string) decimal.NullDecimal {
	cleaned := amountReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func formatNumber(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func formatAmount(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}
