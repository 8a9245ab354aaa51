package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"royalpalm-dashboard/internal/errors"
	"royalpalm-dashboard/internal/models"
	"royalpalm-dashboard/internal/observability"
	"royalpalm-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// SelectionFromRequest reads repeated month and land query parameters. An
// absent parameter selects everything; a present but blank one selects
// nothing.
func SelectionFromRequest(r *http.Request) models.Selection {
	q := r.URL.Query()
	var sel models.Selection
	if v, ok := q["month"]; ok {
		sel.Months = v
	}
	if v, ok := q["land"]; ok {
		sel.Lands = v
	}
	return services.NormalizeSelection(sel)
}

func (h *APIHandlers) selection(w http.ResponseWriter, r *http.Request) (models.Selection, bool) {
	sel := SelectionFromRequest(r)
	if err := h.analytics.Validate(sel); err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "Invalid filter selection"), observability.GetRequestID(r.Context()))
		return sel, false
	}
	return sel, true
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Options(), map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleViews(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	errors.WriteSuccess(w, h.analytics.Views(sel))
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	errors.WriteSuccess(w, h.analytics.Views(sel).KPIs)
}

func (h *APIHandlers) HandleCharts(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	errors.WriteSuccess(w, h.analytics.Charts(sel))
}

func (h *APIHandlers) HandleAmountByMonthLand(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}

	table, err := h.analytics.AmountByMonthLand(sel)
	if stderrors.Is(err, services.ErrAmountUnavailable) {
		errors.WriteError(w, h.logger,
			errors.ViewUnavailable(err, "Amount view is unavailable: the portfolio sheet has no amount column"),
			observability.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccess(w, table)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
