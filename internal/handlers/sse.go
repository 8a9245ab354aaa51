package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"royalpalm-dashboard/internal/models"
	"royalpalm-dashboard/internal/services"
	"royalpalm-dashboard/internal/ui/templates"
)

var filterErrorTemplate = template.Must(template.New("filterError").Parse(
	`<div id="kpi-row" class="kpi-row error">{{.}}</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// filterSignals mirrors the page signals bound to the sidebar widgets.
type filterSignals struct {
	Months []string `json:"months"`
	Lands  []string `json:"lands"`
}

// HandleRefresh recomputes every view for the selection carried in the
// Datastar signals and patches the KPI row, land table and chart data.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read signals", "error", err)
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	sel := services.NormalizeSelection(models.Selection{Months: signals.Months, Lands: signals.Lands})
	if err := h.analytics.Validate(sel); err != nil {
		var buf strings.Builder
		if err := filterErrorTemplate.Execute(&buf, fmt.Sprintf("Invalid filter selection: %v", err)); err != nil {
			h.logger.Error("render filter error", "error", err)
			return
		}
		sse.PatchElements(buf.String())
		return
	}

	views := h.analytics.Views(sel)

	var kpis strings.Builder
	if err := templates.KPIRow(views.KPIs).Render(r.Context(), &kpis); err != nil {
		h.logger.Error("render kpi row", "error", err)
		return
	}
	sse.PatchElements(kpis.String())

	var landShare strings.Builder
	if err := templates.LandShareTable(views.LandTotals).Render(r.Context(), &landShare); err != nil {
		h.logger.Error("render land share table", "error", err)
		return
	}
	sse.PatchElements(landShare.String())

	chartSignals, err := json.Marshal(map[string]any{
		"charts": services.BuildCharts(views),
	})
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(chartSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
