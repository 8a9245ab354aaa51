package services

import (
	"database/sql"
	"math"
)

// MonthYear is one bucket of the reporting window.
type MonthYear struct {
	Month string
	Year  int
	Label string
}

// reportingWindow is the only valid domain for month_year labels, in
// chronological order.
var reportingWindow = [...]MonthYear{
	{Month: "JULY", Year: 2024, Label: "July 2024"},
	{Month: "AUGUST", Year: 2024, Label: "August 2024"},
	{Month: "SEPTEMBER", Year: 2024, Label: "September 2024"},
	{Month: "OCTOBER", Year: 2024, Label: "October 2024"},
	{Month: "NOVEMBER", Year: 2024, Label: "November 2024"},
	{Month: "DECEMBER", Year: 2024, Label: "December 2024"},
	{Month: "JANUARY", Year: 2025, Label: "January 2025"},
}

// Calendar returns a copy of the reporting window in chronological order.
func Calendar() []MonthYear {
	return append([]MonthYear(nil), reportingWindow[:]...)
}

// Labels returns the canonical month_year labels in chronological order.
func Labels() []string {
	labels := make([]string, len(reportingWindow))
	for i, my := range reportingWindow {
		labels[i] = my.Label
	}
	return labels
}

// LabelFor maps an uppercased month name and a numeric year to its canonical
// label. The month must match exactly; a null or non-integral year never
// matches.
func LabelFor(month string, year sql.NullFloat64) (string, bool) {
	if !year.Valid || math.IsNaN(year.Float64) || year.Float64 != math.Trunc(year.Float64) {
		return "", false
	}
	for _, my := range reportingWindow {
		if my.Month == month && float64(my.Year) == year.Float64 {
			return my.Label, true
		}
	}
	return "", false
}

// LabelIndex returns the chronological position of label.
func LabelIndex(label string) (int, bool) {
	for i, my := range reportingWindow {
		if my.Label == label {
			return i, true
		}
	}
	return -1, false
}

// IsLabel reports whether label is one of the seven reporting labels.
func IsLabel(label string) bool {
	_, ok := LabelIndex(label)
	return ok
}
