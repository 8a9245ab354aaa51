package services

import (
	"slices"
	"testing"

	"royalpalm-dashboard/internal/models"
)

func chartByName(charts []models.Chart, name string) (models.Chart, bool) {
	for _, c := range charts {
		if c.Name == name {
			return c, true
		}
	}
	return models.Chart{}, false
}

func TestBuildCharts_Sample(t *testing.T) {
	ds := sampleDataset(t)
	charts := BuildCharts(ComputeViews(ds.Labeled(), ds.HasAmount))

	if len(charts) != 6 {
		t.Fatalf("BuildCharts() = %d charts, want 6", len(charts))
	}

	landByMonth, ok := chartByName(charts, ChartLandByMonth)
	if !ok {
		t.Fatal("land-by-month chart missing")
	}
	if landByMonth.Kind != models.ChartBar || landByMonth.Source != "month_land" {
		t.Errorf("land-by-month = %+v", landByMonth)
	}
	if len(landByMonth.Series) != 3 {
		t.Errorf("land-by-month series = %d, want one per land", len(landByMonth.Series))
	}

	trend, _ := chartByName(charts, ChartInvestmentTrend)
	if !slices.Equal(trend.Categories, Labels()) {
		t.Errorf("trend categories = %v", trend.Categories)
	}
	if want := []float64{2, 1, 1, 0, 0, 1, 2}; !slices.Equal(trend.Series[0].Values, want) {
		t.Errorf("trend values = %v, want %v", trend.Series[0].Values, want)
	}

	share, _ := chartByName(charts, ChartLandShare)
	if share.Kind != models.ChartPie || share.Categories[0] != "Residential" {
		t.Errorf("land share = %+v", share)
	}

	heat, _ := chartByName(charts, ChartMonthLandHeatmap)
	if len(heat.Series) != 7 {
		t.Errorf("heatmap rows = %d, want 7", len(heat.Series))
	}
	if heat.Series[3].Name != "October 2024" || slices.Max(heat.Series[3].Values) != 0 {
		t.Errorf("heatmap October row = %+v", heat.Series[3])
	}

	amount, ok := chartByName(charts, ChartAmountByMonthLand)
	if !ok {
		t.Fatal("amount chart missing")
	}
	if amount.Source != "amount_by_month_land" || len(amount.Categories) != 7 {
		t.Errorf("amount chart = %+v", amount)
	}
}

func TestBuildCharts_NoAmount(t *testing.T) {
	ds := datasetFromText(t, [][]string{
		{"investment_month", "investment_year", "land", "unit"},
		{"JULY", "2024", "Farm", "1"},
	})
	charts := BuildCharts(ComputeViews(ds.Records, ds.HasAmount))

	if len(charts) != 5 {
		t.Errorf("BuildCharts() = %d charts, want 5", len(charts))
	}
	if _, ok := chartByName(charts, ChartAmountByMonthLand); ok {
		t.Error("amount chart should be omitted without an amount column")
	}
}
