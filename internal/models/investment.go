package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Record is one row of the PORTFOLIO sheet after normalization.
type Record struct {
	Row       int
	Month     string
	Year      sql.NullFloat64
	Land      string
	Unit      string
	UnitCount sql.NullFloat64
	Amount    decimal.NullDecimal
	MonthYear string

	// Values holds the normalized cell text aligned to Dataset.Columns.
	Values []string
}

// Labeled reports whether the record fell inside the reporting window.
func (r Record) Labeled() bool {
	return r.MonthYear != ""
}

// Selection narrows the labelled records. A nil slice selects everything,
// an empty non-nil slice selects nothing.
type Selection struct {
	Months []string `json:"months" yaml:"months"`
	Lands  []string `json:"lands" yaml:"lands"`
}

func DefaultSelection() Selection {
	return Selection{}
}

// IsDefault reports whether the selection places no restriction.
func (s Selection) IsDefault() bool {
	return s.Months == nil && s.Lands == nil
}

type FilterOptions struct {
	Months []string `json:"months" yaml:"months"`
	Lands  []string `json:"lands" yaml:"lands"`
}
