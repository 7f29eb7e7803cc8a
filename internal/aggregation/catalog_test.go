package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soltixdb/reportkit/internal/models"
)

func values(list []Option) []models.AggregationType {
	out := make([]models.AggregationType, len(list))
	for i, o := range list {
		out[i] = o.Value
	}
	return out
}

func TestForColumnType(t *testing.T) {
	text := []models.AggregationType{"distinct", "count", "min", "max", "concat"}
	tests := []struct {
		columnType models.ColumnType
		want       []models.AggregationType
	}{
		{models.ColumnText, text},
		{models.ColumnNumber, []models.AggregationType{"distinct", "count", "sum", "avg", "min", "max"}},
		{models.ColumnDate, []models.AggregationType{"distinct", "count", "min", "max"}},
		{models.ColumnBoolean, []models.AggregationType{"distinct", "count"}},
		{models.ColumnDateTime, text},
		{models.ColumnType("other"), text},
	}

	for _, tt := range tests {
		t.Run(string(tt.columnType), func(t *testing.T) {
			assert.Equal(t, tt.want, values(ForColumnType(tt.columnType)))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Summary", Summary.Label)
	assert.Equal(t, "Average", Average.Label)
	assert.Equal(t, models.AggAverage, Average.Value)
}

func TestDefault(t *testing.T) {
	tests := []struct {
		name       string
		columnType models.ColumnType
		requested  models.AggregationType
		want       models.AggregationType
	}{
		{"text none", models.ColumnText, "", models.AggDistinct},
		{"text sum illegal", models.ColumnText, models.AggSum, models.AggDistinct},
		{"text concat", models.ColumnText, models.AggConcat, models.AggConcat},
		{"number avg", models.ColumnNumber, models.AggAverage, models.AggAverage},
		{"date sum illegal", models.ColumnDate, models.AggSum, models.AggDistinct},
		{"boolean max illegal", models.ColumnBoolean, models.AggMax, models.AggDistinct},
		{"boolean count", models.ColumnBoolean, models.AggCount, models.AggCount},
		{"unknown code", models.ColumnNumber, "median", models.AggDistinct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Default(tt.columnType, tt.requested))
		})
	}
}

func TestNormalize(t *testing.T) {
	columns := []models.ColumnConfig{
		{Name: "city", Type: models.ColumnText},
		{Name: "total", Type: models.ColumnNumber},
	}
	group := models.Group{
		Columns: []models.GroupColumn{{Name: "city"}},
		Aggregations: []models.Aggregation{
			{Column: "city", Aggregation: models.AggSum},
			{Column: "total", Aggregation: models.AggSum, Alias: "t"},
			{Column: "ghost", Aggregation: models.AggAverage},
		},
	}

	out := Normalize(group, columns)
	assert.Equal(t, models.AggDistinct, out.Aggregations[0].Aggregation)
	assert.Equal(t, models.AggSum, out.Aggregations[1].Aggregation)
	assert.Equal(t, "t", out.Aggregations[1].Alias)
	assert.Equal(t, models.AggAverage, out.Aggregations[2].Aggregation)
	assert.Equal(t, models.AggSum, group.Aggregations[0].Aggregation)
}
