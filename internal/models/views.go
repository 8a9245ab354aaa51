package models

import "github.com/shopspring/decimal"

// CountTable is a two-dimensional frequency table keyed by month label rows.
type CountTable struct {
	Rows    []string `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
	Cells   [][]int  `json:"cells" yaml:"cells"`
}

// Get returns the count for (row, column), zero when either is absent.
func (t CountTable) Get(row, column string) int {
	ri, ci := indexOf(t.Rows, row), indexOf(t.Columns, column)
	if ri < 0 || ci < 0 {
		return 0
	}
	return t.Cells[ri][ci]
}

// Total sums every cell.
func (t CountTable) Total() int {
	total := 0
	for _, row := range t.Cells {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Reindex returns a copy whose rows are exactly labels, in that order, with
// zero rows for labels that had no records.
func (t CountTable) Reindex(labels []string) CountTable {
	out := CountTable{
		Rows:    append([]string(nil), labels...),
		Columns: append([]string(nil), t.Columns...),
		Cells:   make([][]int, len(labels)),
	}
	for i, label := range labels {
		out.Cells[i] = make([]int, len(t.Columns))
		if ri := indexOf(t.Rows, label); ri >= 0 {
			copy(out.Cells[i], t.Cells[ri])
		}
	}
	return out
}

type Tally struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// AmountTable holds summed amounts per (month label, land).
type AmountTable struct {
	Rows    []string            `json:"rows" yaml:"rows"`
	Columns []string            `json:"columns" yaml:"columns"`
	Cells   [][]decimal.Decimal `json:"cells" yaml:"cells"`
}

func (t AmountTable) Get(row, column string) decimal.Decimal {
	ri, ci := indexOf(t.Rows, row), indexOf(t.Columns, column)
	if ri < 0 || ci < 0 {
		return decimal.Zero
	}
	return t.Cells[ri][ci]
}

type KPIs struct {
	TotalInvestors  int              `json:"total_investors" yaml:"total_investors"`
	LandTypes       int              `json:"land_types" yaml:"land_types"`
	TotalUnits      float64          `json:"total_units" yaml:"total_units"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty" yaml:"total_amount,omitempty"`
	AmountAvailable bool             `json:"amount_available" yaml:"amount_available"`
}

// Views bundles every aggregation over one filtered dataset. Amount is nil
// when the source sheet has no amount column.
type Views struct {
	MonthLand       CountTable   `json:"month_land" yaml:"month_land"`
	MonthUnit       CountTable   `json:"month_unit" yaml:"month_unit"`
	LandTotals      []Tally      `json:"land_totals" yaml:"land_totals"`
	MonthTotals     []Tally      `json:"month_totals" yaml:"month_totals"`
	Amount          *AmountTable `json:"amount_by_month_land,omitempty" yaml:"amount_by_month_land,omitempty"`
	AmountAvailable bool         `json:"amount_available" yaml:"amount_available"`
	KPIs            KPIs         `json:"kpis" yaml:"kpis"`
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
