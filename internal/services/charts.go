package services

import "royalpalm-dashboard/internal/models"

const (
	ChartLandByMonth       = "land-by-month"
	ChartUnitsByMonth      = "units-by-month"
	ChartLandShare         = "land-share"
	ChartInvestmentTrend   = "investment-trend"
	ChartMonthLandHeatmap  = "month-land-heatmap"
	ChartAmountByMonthLand = "amount-by-month-land"
)

// BuildCharts turns the aggregation views into chart data. The amount chart
// is omitted when the amount view is unavailable.
func BuildCharts(views models.Views) []models.Chart {
	charts := []models.Chart{
		groupedBar(ChartLandByMonth, "Monthly Investments by Land Type", "month_land", "No. of Investments", views.MonthLand),
		groupedBar(ChartUnitsByMonth, "Units Bought per Month", "month_unit", "No. of Investments", views.MonthUnit),
		landShare(views.LandTotals),
		investmentTrend(views.MonthTotals),
		heatmap(views.MonthLand.Reindex(Labels())),
	}
	if views.Amount != nil {
		charts = append(charts, amountBar(*views.Amount))
	}
	return charts
}

// groupedBar emits one series per column, one bar group per month row.
func groupedBar(name, title, source, yLabel string, t models.CountTable) models.Chart {
	series := make([]models.Series, len(t.Columns))
	for ci, col := range t.Columns {
		values := make([]float64, len(t.Rows))
		for ri := range t.Rows {
			values[ri] = float64(t.Cells[ri][ci])
		}
		series[ci] = models.Series{Name: col, Values: values}
	}
	return models.Chart{
		Name:       name,
		Kind:       models.ChartBar,
		Title:      title,
		Source:     source,
		XLabel:     "Month",
		YLabel:     yLabel,
		Categories: append([]string{}, t.Rows...),
		Series:     series,
	}
}

func landShare(totals []models.Tally) models.Chart {
	categories := make([]string, len(totals))
	values := make([]float64, len(totals))
	for i, t := range totals {
		categories[i] = t.Label
		values[i] = float64(t.Count)
	}
	return models.Chart{
		Name:       ChartLandShare,
		Kind:       models.ChartPie,
		Title:      "Investment Share by Land Type",
		Source:     "land_totals",
		Categories: categories,
		Series:     []models.Series{{Name: "Investments", Values: values}},
	}
}

func investmentTrend(totals []models.Tally) models.Chart {
	categories := make([]string, len(totals))
	values := make([]float64, len(totals))
	for i, t := range totals {
		categories[i] = t.Label
		values[i] = float64(t.Count)
	}
	return models.Chart{
		Name:       ChartInvestmentTrend,
		Kind:       models.ChartLine,
		Title:      "Investment Trend Over Time",
		Source:     "month_totals",
		XLabel:     "Month",
		YLabel:     "Number of Investments",
		Categories: categories,
		Series:     []models.Series{{Name: "Investments", Values: values}},
	}
}

// heatmap emits one series per month row; Categories are the land columns.
func heatmap(t models.CountTable) models.Chart {
	series := make([]models.Series, len(t.Rows))
	for ri, row := range t.Rows {
		values := make([]float64, len(t.Columns))
		for ci := range t.Columns {
			values[ci] = float64(t.Cells[ri][ci])
		}
		series[ri] = models.Series{Name: row, Values: values}
	}
	return models.Chart{
		Name:       ChartMonthLandHeatmap,
		Kind:       models.ChartHeatmap,
		Title:      "Heatmap of Investments (Month vs Land Type)",
		Source:     "month_land",
		XLabel:     "Land Type",
		YLabel:     "Month",
		Categories: append([]string{}, t.Columns...),
		Series:     series,
	}
}

func amountBar(t models.AmountTable) models.Chart {
	series := make([]models.Series, len(t.Columns))
	for ci, col := range t.Columns {
		values := make([]float64, len(t.Rows))
		for ri := range t.Rows {
			values[ri] = t.Cells[ri][ci].InexactFloat64()
		}
		series[ci] = models.Series{Name: col, Values: values}
	}
	return models.Chart{
		Name:       ChartAmountByMonthLand,
		Kind:       models.ChartBar,
		Title:      "Amount Invested by Month and Land Type",
		Source:     "amount_by_month_land",
		XLabel:     "Month",
		YLabel:     "Amount Invested",
		Categories: append([]string{}, t.Rows...),
		Series:     series,
	}
}
