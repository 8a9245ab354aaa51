package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"royalpalm-dashboard/internal/models"
)

var ErrInvalidSelection = errors.New("invalid selection")

// Dataset is one loaded sheet. Records are never mutated after load.
type Dataset struct {
	Source    string
	Sheet     string
	Columns   []string
	Records   []models.Record
	HasAmount bool
	LoadedAt  time.Time
}

// Labeled returns the records that fell inside the reporting window.
func (d *Dataset) Labeled() []models.Record {
	return lo.Filter(d.Records, func(r models.Record, _ int) bool {
		return r.Labeled()
	})
}

// Skipped counts records dropped for lack of a month_year label.
func (d *Dataset) Skipped() int {
	return lo.CountBy(d.Records, func(r models.Record) bool {
		return !r.Labeled()
	})
}

// LandTypes lists the distinct non-blank lands of labelled records in
// first-seen order.
func (d *Dataset) LandTypes() []string {
	lands := lo.FilterMap(d.Records, func(r models.Record, _ int) (string, bool) {
		return r.Land, r.Labeled() && r.Land != ""
	})
	return lo.Uniq(lands)
}

// Options lists the selectable values: every label and every observed land.
func (d *Dataset) Options() models.FilterOptions {
	return models.FilterOptions{
		Months: Labels(),
		Lands:  d.LandTypes(),
	}
}

// Filter keeps labelled records whose month and land are both selected. A
// record with a blank land is never an option, so it is excluded even when
// every land is selected implicitly.
func Filter(records []models.Record, sel models.Selection) []models.Record {
	months := toSet(sel.Months)
	lands := toSet(sel.Lands)

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !r.Labeled() || r.Land == "" {
			continue
		}
		if months != nil && !months[r.MonthYear] {
			continue
		}
		if lands != nil && !lands[r.Land] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// NormalizeSelection trims and dedupes the selection while keeping the
// nil/empty distinction.
func NormalizeSelection(sel models.Selection) models.Selection {
	return models.Selection{
		Months: normalizeValues(sel.Months),
		Lands:  normalizeValues(sel.Lands),
	}
}

func normalizeValues(values []string) []string {
	if values == nil {
		return nil
	}
	out := lo.Uniq(lo.Compact(lo.Map(values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	})))
	if out == nil {
		out = []string{}
	}
	return out
}

type SelectionError struct {
	Field string
	Value string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// ValidateSelection rejects months outside the reporting window and lands
// not observed in the dataset.
func ValidateSelection(sel models.Selection, lands []string) error {
	for _, m := range sel.Months {
		if !IsLabel(m) {
			return &SelectionError{Field: "month", Value: m}
		}
	}
	for _, l := range sel.Lands {
		if !slices.Contains(lands, l) {
			return &SelectionError{Field: "land", Value: l}
		}
	}
	return nil
}
