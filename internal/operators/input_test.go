package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/models"
)

func TestInputKindFor(t *testing.T) {
	text := &models.ColumnConfig{Name: "city", Type: models.ColumnText}
	number := &models.ColumnConfig{Name: "age", Type: models.ColumnNumber}
	date := &models.ColumnConfig{Name: "created", Type: models.ColumnDateTime}
	flag := &models.ColumnConfig{Name: "paid", Type: models.ColumnBoolean}
	selects := models.FilterBuilderConfig{"city": {Type: models.SelectTypeSelect}}

	tests := []struct {
		name   string
		column *models.ColumnConfig
		op     models.Operator
		cfg    models.FilterBuilderConfig
		want   InputKind
	}{
		{"no operator", text, "", nil, InputText},
		{"operator illegal for column", flag, models.OpEqual, nil, InputText},
		{"no value", text, models.OpIsNull, selects, InputNone},
		{"boolean", flag, models.OpIsTrue, nil, InputNone},
		{"select wins", text, models.OpIn, selects, InputSelect},
		{"in", text, models.OpIn, nil, InputIn},
		{"not in number", number, models.OpNotIn, nil, InputIn},
		{"text", text, models.OpContains, nil, InputText},
		{"number", number, models.OpGreater, nil, InputNumber},
		{"date", date, models.OpInRange, nil, InputDate},
		{"unknown column uses text list", nil, models.OpContains, nil, InputNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InputKindFor(tt.column, tt.op, tt.cfg))
		})
	}
}

func TestValueRules(t *testing.T) {
	number := &models.ColumnConfig{Name: "age", Type: models.ColumnNumber}

	assert.Nil(t, ValueRules(number, models.OpIsNull))
	assert.Nil(t, ValueRules(number, ""))
	assert.Nil(t, ValueRules(number, models.OpContains))

	rules := ValueRules(number, models.OpEqual)
	require.Len(t, rules, 1)
	msg, ok := CheckValue(rules, nil)
	assert.False(t, ok)
	assert.Equal(t, MessageRequired, msg)
	_, ok = CheckValue(rules, 0.0)
	assert.True(t, ok)

	rules = ValueRules(number, models.OpInRange)
	require.Len(t, rules, 2)
	msg, ok = CheckValue(rules, []interface{}{})
	assert.False(t, ok)
	assert.Equal(t, MessageRequired, msg)
	msg, ok = CheckValue(rules, []interface{}{1.0, "x"})
	assert.False(t, ok)
	assert.Equal(t, MessageMismatch, msg)
	_, ok = CheckValue(rules, []interface{}{1.0, 9.0})
	assert.True(t, ok)

	// without a column only the required rule applies
	rules = ValueRules(nil, models.OpIn)
	require.Len(t, rules, 1)
	_, ok = CheckValue(rules, "anything")
	assert.True(t, ok)
}
