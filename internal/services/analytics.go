package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"royalpalm-dashboard/internal/models"
	"royalpalm-dashboard/internal/observability"
)

// PrecomputedData holds the views for the default (everything selected)
// filter, built once per load.
type PrecomputedData struct {
	Views        models.Views         `json:"views"`
	Charts       []models.Chart       `json:"charts"`
	Options      models.FilterOptions `json:"options"`
	LastModified time.Time            `json:"last_modified"`
	RecordCount  int64                `json:"record_count"`
}

type Analytics struct {
	mu          sync.RWMutex
	dataset     *Dataset
	labeled     []models.Record
	precomputed *PrecomputedData
	loader      Loader
	loads       atomic.Int64
	logger      *slog.Logger
}

func NewAnalytics(loader Loader) *Analytics {
	logger := slog.Default()
	if loader == nil {
		loader = NewWorkbookLoader(logger)
	}
	a := &Analytics{
		loader: loader,
		logger: logger,
	}
	a.SetDataset(&Dataset{})
	return a
}

// SetDataset replaces the loaded dataset and recomputes the default views.
func (a *Analytics) SetDataset(ds *Dataset) {
	labeled := ds.Labeled()
	precomputed := &PrecomputedData{
		Views:        ComputeViews(Filter(labeled, models.DefaultSelection()), ds.HasAmount),
		Options:      ds.Options(),
		LastModified: time.Now(),
		RecordCount:  int64(len(ds.Records)),
	}
	precomputed.Charts = BuildCharts(precomputed.Views)

	a.mu.Lock()
	a.dataset = ds
	a.labeled = labeled
	a.precomputed = precomputed
	a.mu.Unlock()
}

func (a *Analytics) LoadFromWorkbook(ctx context.Context, path, sheet string) error {
	ctx, span := observability.StartSpan(ctx, "portfolio.load")
	span.SetTag("path", path)
	span.SetTag("sheet", sheet)
	defer func() {
		span.Finish()
		a.logger.Debug("span finished", "span", span)
	}()

	ds, err := a.loader.Load(ctx, path, sheet)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("load workbook: %w", err)
	}
	a.SetDataset(ds)
	a.loads.Add(1)

	a.logger.Info("dataset ready",
		"records", len(ds.Records),
		"labeled", len(ds.Labeled()),
		"land_types", len(ds.LandTypes()))
	return nil
}

func (a *Analytics) Options() models.FilterOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Options
}

// Validate checks a selection against the loaded dataset.
func (a *Analytics) Validate(sel models.Selection) error {
	a.mu.RLock()
	lands := a.precomputed.Options.Lands
	a.mu.RUnlock()
	return ValidateSelection(sel, lands)
}

func (a *Analytics) Filter(sel models.Selection) []models.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Filter(a.labeled, sel)
}

func (a *Analytics) Views(sel models.Selection) models.Views {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if sel.IsDefault() {
		return a.precomputed.Views
	}
	return ComputeViews(Filter(a.labeled, sel), a.dataset.HasAmount)
}

func (a *Analytics) Charts(sel models.Selection) []models.Chart {
	if sel.IsDefault() {
		a.mu.RLock()
		defer a.mu.RUnlock()
		return a.precomputed.Charts
	}
	return BuildCharts(a.Views(sel))
}

func (a *Analytics) AmountByMonthLand(sel models.Selection) (models.AmountTable, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return SumAmountByMonthLand(Filter(a.labeled, sel), a.dataset.HasAmount)
}

// ExportCSV writes the filtered dataset as CSV.
func (a *Analytics) ExportCSV(w io.Writer, sel models.Selection) error {
	a.mu.RLock()
	columns := a.dataset.Columns
	records := Filter(a.labeled, sel)
	a.mu.RUnlock()
	return WriteCSV(w, columns, records)
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"source":         a.dataset.Source,
		"sheet":          a.dataset.Sheet,
		"record_count":   a.precomputed.RecordCount,
		"labeled":        len(a.labeled),
		"skipped":        a.dataset.Skipped(),
		"land_types":     len(a.precomputed.Options.Lands),
		"has_amount":     a.dataset.HasAmount,
		"loads":          a.loads.Load(),
		"last_processed": a.precomputed.LastModified,
	}
}
