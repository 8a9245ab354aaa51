package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"royalpalm-dashboard/internal/models"
)

var funcs = template.FuncMap{
	"amount": func(d *decimal.Decimal) string {
		if d == nil {
			return "n/a"
		}
		return d.StringFixedBank(2)
	},
	"units": func(v float64) string {
		return decimal.NewFromFloat(v).String()
	},
	"percent": func(n, total int) string {
		if total == 0 {
			return "0.0%"
		}
		return decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).StringFixed(1) + "%"
	},
}

var kpiRowTemplate = template.Must(template.New("kpiRow").Funcs(funcs).Parse(`
<div id="kpi-row" class="kpi-row">
<div class="kpi"><span class="kpi-label">Total Investors</span><span class="kpi-value">{{.TotalInvestors}}</span></div>
<div class="kpi"><span class="kpi-label">Land Types</span><span class="kpi-value">{{.LandTypes}}</span></div>
<div class="kpi"><span class="kpi-label">Total Units</span><span class="kpi-value">{{units .TotalUnits}}</span></div>
{{if .AmountAvailable}}<div class="kpi"><span class="kpi-label">Amount Invested</span><span class="kpi-value">{{amount .TotalAmount}}</span></div>{{end}}
</div>`))

var landShareTemplate = template.Must(template.New("landShare").Funcs(funcs).Parse(`
<div id="land-share-table">
<table class="modern-table">
<thead><tr><th>Land Type</th><th>Investments</th><th>Share</th></tr></thead>
<tbody>
{{range .Totals}}<tr>
<td>{{.Label}}</td>
<td>{{.Count}}</td>
<td>{{percent .Count $.Sum}}</td>
</tr>{{else}}<tr><td colspan="3" class="empty">No investments match the current filters</td></tr>{{end}}
</tbody>
</table>
</div>`))

func execute(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.Execute(w, data)
	})
}

// KPIRow renders the headline numbers for the current filter.
func KPIRow(kpis models.KPIs) templ.Component {
	return execute(kpiRowTemplate, kpis)
}

// LandShareTable renders land totals with their share of all investments.
func LandShareTable(totals []models.Tally) templ.Component {
	sum := 0
	for _, t := range totals {
		sum += t.Count
	}
	return execute(landShareTemplate, struct {
		Totals []models.Tally
		Sum    int
	}{totals, sum})
}
