package services

import (
	"cmp"
	"errors"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"royalpalm-dashboard/internal/models"
)

// ErrAmountUnavailable marks the capability gap of a sheet without an amount
// column. It is distinct from an amount view that sums to zero.
var ErrAmountUnavailable = errors.New("amount column not present in source")

// CountByMonthLand counts records per (month_year, land). Rows are the
// observed months in chronological order.
func CountByMonthLand(records []models.Record) models.CountTable {
	return crossTab(records, func(r models.Record) string { return r.Land }, compareText)
}

// CountByMonthUnit counts records per (month_year, unit).
func CountByMonthUnit(records []models.Record) models.CountTable {
	return crossTab(records, func(r models.Record) string { return r.Unit }, compareNatural)
}

func crossTab(records []models.Record, column func(models.Record) string, order func(a, b string) int) models.CountTable {
	labelled := lo.Filter(records, func(r models.Record, _ int) bool { return r.Labeled() })

	rows := sortLabels(lo.Uniq(lo.Map(labelled, func(r models.Record, _ int) string { return r.MonthYear })))
	cols := lo.Uniq(lo.Map(labelled, func(r models.Record, _ int) string { return column(r) }))
	slices.SortFunc(cols, order)

	rowIdx := positions(rows)
	colIdx := positions(cols)

	cells := make([][]int, len(rows))
	for i := range cells {
		cells[i] = make([]int, len(cols))
	}
	for _, r := range labelled {
		cells[rowIdx[r.MonthYear]][colIdx[column(r)]]++
	}

	return models.CountTable{Rows: rows, Columns: cols, Cells: cells}
}

// CountByLand counts records per land, highest count first.
func CountByLand(records []models.Record) []models.Tally {
	counts := lo.CountValuesBy(
		lo.Filter(records, func(r models.Record, _ int) bool { return r.Labeled() }),
		func(r models.Record) string { return r.Land },
	)

	out := make([]models.Tally, 0, len(counts))
	for land, n := range counts {
		out = append(out, models.Tally{Label: land, Count: n})
	}
	slices.SortFunc(out, func(a, b models.Tally) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// CountByMonth counts records per month_year over the full reporting window;
// months without records are reported as zero.
func CountByMonth(records []models.Record) []models.Tally {
	labels := Labels()
	out := make([]models.Tally, len(labels))
	for i, label := range labels {
		out[i] = models.Tally{Label: label}
	}
	for _, r := range records {
		if i, ok := LabelIndex(r.MonthYear); ok {
			out[i].Count++
		}
	}
	return out
}

// SumAmountByMonthLand sums amounts per (month_year, land), skipping null
// amounts. Every month of the reporting window gets a row.
func SumAmountByMonthLand(records []models.Record, hasAmount bool) (models.AmountTable, error) {
	if !hasAmount {
		return models.AmountTable{}, ErrAmountUnavailable
	}

	labelled := lo.Filter(records, func(r models.Record, _ int) bool { return r.Labeled() })
	rows := Labels()
	cols := lo.Uniq(lo.Map(labelled, func(r models.Record, _ int) string { return r.Land }))
	slices.SortFunc(cols, compareText)

	colIdx := positions(cols)
	cells := make([][]decimal.Decimal, len(rows))
	for i := range cells {
		cells[i] = make([]decimal.Decimal, len(cols))
		for j := range cells[i] {
			cells[i][j] = decimal.Zero
		}
	}
	for _, r := range labelled {
		if !r.Amount.Valid {
			continue
		}
		ri, _ := LabelIndex(r.MonthYear)
		ci := colIdx[r.Land]
		cells[ri][ci] = cells[ri][ci].Add(r.Amount.Decimal)
	}

	return models.AmountTable{Rows: rows, Columns: cols, Cells: cells}, nil
}

func ComputeKPIs(records []models.Record, hasAmount bool) models.KPIs {
	kpis := models.KPIs{AmountAvailable: hasAmount}
	lands := make(map[string]struct{})
	total := decimal.Zero

	for _, r := range records {
		if !r.Labeled() {
			continue
		}
		kpis.TotalInvestors++
		if r.Land != "" {
			lands[r.Land] = struct{}{}
		}
		if r.UnitCount.Valid {
			kpis.TotalUnits += r.UnitCount.Float64
		}
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
	}
	kpis.LandTypes = len(lands)
	if hasAmount {
		kpis.TotalAmount = &total
	}
	return kpis
}

// ComputeViews runs every aggregation over one filtered record set.
func ComputeViews(records []models.Record, hasAmount bool) models.Views {
	views := models.Views{
		MonthLand:   CountByMonthLand(records),
		MonthUnit:   CountByMonthUnit(records),
		LandTotals:  CountByLand(records),
		MonthTotals: CountByMonth(records),
		KPIs:        ComputeKPIs(records, hasAmount),
	}
	if amount, err := SumAmountByMonthLand(records, hasAmount); err == nil {
		views.Amount = &amount
		views.AmountAvailable = true
	}
	return views
}

func sortLabels(labels []string) []string {
	slices.SortFunc(labels, func(a, b string) int {
		ia, _ := LabelIndex(a)
		ib, _ := LabelIndex(b)
		return cmp.Compare(ia, ib)
	})
	return labels
}

func positions(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

func compareText(a, b string) int {
	return cmp.Compare(a, b)
}

// compareNatural orders numeric values numerically ahead of any text.
func compareNatural(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
