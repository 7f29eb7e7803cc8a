// Package datachart builds chart series data from element rows.
package datachart

import (
	"fmt"
	"strings"

	"github.com/soltixdb/reportkit/internal/models"
)

// SeriesType is the chart variant of one series
type SeriesType = models.ChartSeriesType

const (
	SeriesPie  = models.ChartPie
	SeriesLine = models.ChartLine
	SeriesBar  = models.ChartBar
)

// SupportedTypes lists the series variants SeriesData understands
var SupportedTypes = []SeriesType{SeriesPie, SeriesLine, SeriesBar}

// UnsupportedSeriesError is returned for a series variant with no builder
type UnsupportedSeriesError struct {
	Type SeriesType
}

func (e *UnsupportedSeriesError) Error() string {
	names := make([]string, len(SupportedTypes))
	for i, t := range SupportedTypes {
		names[i] = string(t)
	}
	return fmt.Sprintf("Sdk does not support %s type. %s is supported for now", e.Type, strings.Join(names, ","))
}

type (
	Axis     = models.ChartAxis
	Series   = models.ChartSeries
	Options  = models.ChartOptions
	PiePoint = models.ChartPiePoint
	Data     = models.ChartData
)

// SeriesData builds the data of every series in order. The first series
// with an unsupported type fails the whole chart.
func SeriesData(chart Options, ds models.DsDataSource) ([]Data, error) {
	out := make([]Data, 0, len(chart.Series))
	for _, s := range chart.Series {
		switch s.Type {
		case SeriesPie:
			out = append(out, pieData(s, ds))
		case SeriesLine, SeriesBar:
			out = append(out, lineData(s, ds))
		default:
			return nil, &UnsupportedSeriesError{Type: s.Type}
		}
	}
	return out, nil
}

func pieData(s Series, ds models.DsDataSource) Data {
	x, y := axisIndexes(s.Data, ds.Cols)
	points := make([]interface{}, len(ds.Rows))
	for i, row := range ds.Rows {
		points[i] = PiePoint{Name: cell(row, x), Value: cell(row, y)}
	}
	return Data{YData: points}
}

func lineData(s Series, ds models.DsDataSource) Data {
	x, y := axisIndexes(s.Data, ds.Cols)
	xs := make([]interface{}, len(ds.Rows))
	ys := make([]interface{}, len(ds.Rows))
	for i, row := range ds.Rows {
		xs[i] = cell(row, x)
		ys[i] = cell(row, y)
	}
	return Data{XData: xs, YData: ys}
}

func axisIndexes(axis Axis, cols []models.DsColumn) (int, int) {
	return columnIndex(cols, axis.X), columnIndex(cols, axis.Y)
}

// columnIndex matches alias first, then name; -1 when absent
func columnIndex(cols []models.DsColumn, ref string) int {
	for i, c := range cols {
		if (c.Alias != "" && c.Alias == ref) || c.Name == ref {
			return i
		}
	}
	return -1
}

func cell(row []interface{}, i int) interface{} {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
