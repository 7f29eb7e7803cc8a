// Package aggregation lists the aggregation functions legal for each column
// type and picks the default one.
package aggregation

import "github.com/soltixdb/reportkit/internal/models"

// Option is one aggregation entry
type Option struct {
	Label string
	Value models.AggregationType
}

var (
	Count    = Option{Label: "Count", Value: models.AggCount}
	Min      = Option{Label: "Min", Value: models.AggMin}
	Max      = Option{Label: "Max", Value: models.AggMax}
	Summary  = Option{Label: "Summary", Value: models.AggSum}
	Concat   = Option{Label: "Concat", Value: models.AggConcat}
	Distinct = Option{Label: "Distinct", Value: models.AggDistinct}
	Average  = Option{Label: "Average", Value: models.AggAverage}
)

var (
	textAggregations    = []Option{Distinct, Count, Min, Max, Concat}
	numberAggregations  = []Option{Distinct, Count, Summary, Average, Min, Max}
	dateAggregations    = []Option{Distinct, Count, Min, Max}
	booleanAggregations = []Option{Distinct, Count}
)

// ForColumnType returns the aggregations legal for t. Datetime and unknown
// types get the text list.
func ForColumnType(t models.ColumnType) []Option {
	var list []Option
	switch t {
	case models.ColumnNumber:
		list = numberAggregations
	case models.ColumnBoolean:
		list = booleanAggregations
	case models.ColumnDate:
		list = dateAggregations
	default:
		list = textAggregations
	}
	out := make([]Option, len(list))
	copy(out, list)
	return out
}

// Default returns requested when it is legal for t, otherwise the first
// legal aggregation.
func Default(t models.ColumnType, requested models.AggregationType) models.AggregationType {
	list := ForColumnType(t)
	if requested != "" {
		for _, o := range list {
			if o.Value == requested {
				return requested
			}
		}
	}
	return list[0].Value
}

// DefaultFor is Default for a column config
func DefaultFor(column models.ColumnConfig, requested models.AggregationType) models.AggregationType {
	return Default(column.Type, requested)
}

// Normalize replaces every illegal aggregation in group with the default of
// its column. Aggregations on unknown columns are left unchanged.
func Normalize(group models.Group, columns []models.ColumnConfig) models.Group {
	out := models.Group{
		Columns:      append([]models.GroupColumn{}, group.Columns...),
		Aggregations: make([]models.Aggregation, len(group.Aggregations)),
	}
	for i, a := range group.Aggregations {
		if col, ok := models.FindColumn(columns, a.Column); ok {
			a.Aggregation = DefaultFor(col, a.Aggregation)
		}
		out.Aggregations[i] = a
	}
	return out
}
