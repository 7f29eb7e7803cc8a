package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/operators"
)

func leaf(column string, op models.Operator, value interface{}) models.FilterNode {
	return models.ConditionNode(models.FilterCondition{Column: column, Operator: op, Value: value})
}

func newFilterService() *FilterService {
	return NewFilterService(logging.NewDevelopment(), fixedResolver(), nil)
}

func TestFilterService_Tree(t *testing.T) {
	svc := newFilterService()
	filter := models.FilterGroup{Type: models.LogicOr, Conditions: []models.FilterNode{
		leaf("name", models.OpEqual, "a"),
		models.GroupNode(models.FilterGroup{Type: models.LogicAnd, Conditions: []models.FilterNode{
			leaf("qty", models.OpGreater, 1.0),
		}}),
	}}

	view, err := svc.Tree(&models.FilterTreeRequest{Filter: &filter})
	require.NoError(t, err)
	require.Len(t, view.Nodes, 4)

	root := view.Nodes[0]
	assert.Equal(t, view.Root, root.ID)
	assert.True(t, root.IsRoot)
	assert.Len(t, root.Children, 2)
	assert.Equal(t, 2, view.Nodes[3].Level)
}

func TestFilterService_TreeOfNilFilter(t *testing.T) {
	view, err := newFilterService().Tree(&models.FilterTreeRequest{})
	require.NoError(t, err)
	require.Len(t, view.Nodes, 1)
	assert.True(t, view.Nodes[0].IsGroup)
}

func TestFilterService_Wire(t *testing.T) {
	svc := newFilterService()
	filter := models.FilterGroup{Type: models.LogicAnd, Conditions: []models.FilterNode{
		leaf("a", models.OpEqual, ""),
		leaf("b", models.OpEqual, 0.0),
	}}

	resp := svc.Wire(&models.WireFilterRequest{Filter: filter, Prune: true})
	require.Len(t, resp.Filter.Conditions, 1)
	assert.Equal(t, "b", resp.Filter.Conditions[0].Condition.Column)

	resp = svc.Wire(&models.WireFilterRequest{Filter: filter})
	assert.Len(t, resp.Filter.Conditions, 2)
}

func TestFilterService_Validate(t *testing.T) {
	svc := newFilterService()
	columns := []models.ColumnConfig{{Name: "name", Type: models.ColumnText}}

	resp, err := svc.Validate(&models.ValidateFilterRequest{
		Filter: models.FilterGroup{Type: models.LogicAnd, Conditions: []models.FilterNode{
			leaf("name", models.OpEqual, ""),
			leaf("name", models.OpEqual, "x"),
		}},
		Columns: columns,
	})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, operators.MessageRequired, resp.Violations[0].Message)

	resp, err = svc.Validate(&models.ValidateFilterRequest{Filter: models.NewFilter(), Columns: columns})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)
}

func TestFilterService_Format(t *testing.T) {
	svc := newFilterService()
	cfg := format.Default(format.Text)
	cfg.Common.Prefix = "#"

	resp := svc.Format(&models.FormatRequest{Config: cfg, Values: []interface{}{"a", nil}})
	assert.Equal(t, []string{"#a", "Null"}, resp.Values)
}
