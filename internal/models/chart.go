package models

// ChartSeriesType is the chart variant of one series
type ChartSeriesType string

const (
	ChartPie  ChartSeriesType = "pie"
	ChartLine ChartSeriesType = "line"
	ChartBar  ChartSeriesType = "bar"
)

// ChartAxis names the columns feeding a series, by alias or name
type ChartAxis struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// ChartSeries is one chart series
type ChartSeries struct {
	Type ChartSeriesType `json:"type"`
	Name string          `json:"name,omitempty"`
	Data ChartAxis       `json:"data"`
}

// ChartOptions is a chart definition
type ChartOptions struct {
	Series []ChartSeries `json:"series"`
}

// ChartPiePoint is one slice of a pie series
type ChartPiePoint struct {
	Name  interface{} `json:"name"`
	Value interface{} `json:"value"`
}

// ChartData is the built data of one series. XData is nil for pie series.
type ChartData struct {
	XData []interface{} `json:"xData,omitempty"`
	YData []interface{} `json:"yData"`
}
