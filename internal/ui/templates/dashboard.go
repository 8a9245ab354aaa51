package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"royalpalm-dashboard/internal/models"
)

const (
	Title    = "Royal Palm Investment Portfolio Dashboard"
	Subtitle = "Seven-Month Investment Analysis (July 2024 - January 2025)"
)

// DashboardData is everything the page needs for its first paint.
type DashboardData struct {
	Options models.FilterOptions
	Views   models.Views
	Charts  []models.Chart
}

type pageData struct {
	Title     string
	Subtitle  string
	Options   models.FilterOptions
	Signals   string
	KPIs      template.HTML
	LandShare template.HTML
	Amount    bool
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;display:flex;min-height:100vh;background:#f7f7f4}
aside{width:260px;padding:1.5rem;background:#1f3b2d;color:#fff}
aside select{width:100%;min-height:9rem}
main{flex:1;padding:1.5rem 2rem}
.kpi-row{display:flex;gap:1rem;margin:1rem 0}
.kpi{flex:1;background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.kpi-label{display:block;color:#666;font-size:.85rem}
.kpi-value{font-size:1.8rem;font-weight:600}
.chart{background:#fff;border-radius:8px;margin:1rem 0;min-height:360px}
.modern-table{border-collapse:collapse;width:100%;background:#fff}
.modern-table th,.modern-table td{padding:.4rem .8rem;border-bottom:1px solid #eee;text-align:left}
.downloads a{display:inline-block;margin-right:1rem;padding:.5rem 1rem;background:#1f3b2d;color:#fff;border-radius:6px;text-decoration:none}
footer{margin-top:2rem;border-top:1px solid #ddd;padding-top:1rem;color:#666}
</style>
<script>
function selectionQuery(months, lands) {
  const q = new URLSearchParams();
  (months.length ? months : [""]).forEach(m => q.append("month", m));
  (lands.length ? lands : [""]).forEach(l => q.append("land", l));
  return q.toString();
}
function renderCharts(charts) {
  (charts || []).forEach(c => {
    const el = document.getElementById("chart-" + c.name);
    if (!el) return;
    let traces;
    switch (c.kind) {
    case "pie":
      traces = [{type: "pie", labels: c.categories, values: c.series[0].values}];
      break;
    case "line":
      traces = [{type: "scatter", mode: "lines+markers", x: c.categories, y: c.series[0].values}];
      break;
    case "heatmap":
      traces = [{type: "heatmap", x: c.categories, y: c.series.map(s => s.name), z: c.series.map(s => s.values), colorscale: "RdBu", reversescale: true, texttemplate: "%{z}"}];
      break;
    default:
      traces = c.series.map(s => ({type: "bar", name: s.name, x: c.categories, y: s.values}));
    }
    Plotly.react(el, traces, {title: c.title, barmode: "group", xaxis: {title: c.x_label, categoryorder: "array", categoryarray: c.kind === "heatmap" ? undefined : c.categories}, yaxis: {title: c.y_label, autorange: c.kind === "heatmap" ? "reversed" : true}});
  });
}
</script>
</head>
<body data-signals="{{.Signals}}" data-effect="renderCharts($charts)">
<aside>
<h2>Filter Investment Data</h2>
<label for="months">Select Month(s)</label>
<select id="months" multiple data-bind-months data-on-change="@get('/sse/refresh')">
{{range .Options.Months}}<option value="{{.}}" selected>{{.}}</option>
{{end}}</select>
<label for="lands">Select Land Type(s)</label>
<select id="lands" multiple data-bind-lands data-on-change="@get('/sse/refresh')">
{{range .Options.Lands}}<option value="{{.}}" selected>{{.}}</option>
{{end}}</select>
</aside>
<main>
<h1>{{.Title}}</h1>
<h4><em>{{.Subtitle}}</em></h4>
{{.KPIs}}
<div id="chart-land-by-month" class="chart"></div>
<div id="chart-units-by-month" class="chart"></div>
<div id="chart-land-share" class="chart"></div>
{{.LandShare}}
<div id="chart-investment-trend" class="chart"></div>
<h3>Heatmap of Investment Engagement (Month vs Land Type)</h3>
<div id="chart-month-land-heatmap" class="chart"></div>
{{if .Amount}}<div id="chart-amount-by-month-land" class="chart"></div>{{end}}
<h3>Download Current View</h3>
<div class="downloads">
<a href="/download/csv" data-attr-href="'/download/csv?' + selectionQuery($months, $lands)">Download CSV</a>
<a href="/download/report">Download Full Word Report</a>
</div>
<footer>Developed by Kajola Gbenga | Data Analytics Report Engine | UMéRA Business School</footer>
</main>
</body>
</html>
`))

// Dashboard renders the full page. Filter widgets start with every option
// selected.
func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(map[string]any{
			"months": data.Options.Months,
			"lands":  data.Options.Lands,
			"charts": data.Charts,
		})
		if err != nil {
			return err
		}

		kpis, err := templ.ToGoHTML(ctx, KPIRow(data.Views.KPIs))
		if err != nil {
			return err
		}
		landShare, err := templ.ToGoHTML(ctx, LandShareTable(data.Views.LandTotals))
		if err != nil {
			return err
		}

		return pageTemplate.Execute(w, pageData{
			Title:     Title,
			Subtitle:  Subtitle,
			Options:   data.Options,
			Signals:   string(signals),
			KPIs:      kpis,
			LandShare: landShare,
			Amount:    data.Views.AmountAvailable,
		})
	})
}
