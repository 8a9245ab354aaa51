package models

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartPie     ChartKind = "pie"
	ChartLine    ChartKind = "line"
	ChartHeatmap ChartKind = "heatmap"
)

type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Chart is the data behind one dashboard figure. Source names the
// aggregation the values were taken from.
type Chart struct {
	Name       string    `json:"name" yaml:"name"`
	Kind       ChartKind `json:"kind" yaml:"kind"`
	Title      string    `json:"title" yaml:"title"`
	Source     string    `json:"source" yaml:"source"`
	XLabel     string    `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel     string    `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Categories []string  `json:"categories" yaml:"categories"`
	Series     []Series  `json:"series" yaml:"series"`
}
