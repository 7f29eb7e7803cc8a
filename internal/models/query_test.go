package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuery(t *testing.T) {
	q := DefaultQuery()
	assert.Empty(t, q.Group.Columns)
	assert.Empty(t, q.Group.Aggregations)
	assert.Equal(t, LogicAnd, q.Filter.Type)
	assert.Empty(t, q.Filter.Conditions)
	assert.Nil(t, q.Sort)
	assert.Equal(t, Pagination{Limit: 10, Index: 1}, q.Pagination)
}

func TestQuery_UnmarshalMergesDefaults(t *testing.T) {
	var q Query
	require.NoError(t, json.Unmarshal([]byte(`{
		"fields": [{"name": "city"}],
		"pagination": {"index": 3}
	}`), &q))

	assert.Equal(t, []Field{{Name: "city"}}, q.Fields)
	assert.Equal(t, 3, q.Pagination.Index)
	assert.Equal(t, 10, q.Pagination.Limit)
	assert.Equal(t, LogicAnd, q.Filter.Type)
	assert.NotNil(t, q.Group.Columns)
}

func TestToDsQuery(t *testing.T) {
	distinct := true
	q := DefaultQuery()
	q.Fields = []Field{{Name: "city"}, {Name: "total", Alias: "t"}}
	q.Group.Columns = []GroupColumn{{Name: "city"}}
	q.Group.Aggregations = []Aggregation{{Column: "total", Aggregation: AggSum}}
	q.Pagination = Pagination{Limit: 25, Index: 2}
	q.Sort = &Sort{Column: "city", Direction: SortDesc}
	q.Distinct = &distinct

	filter := NewFilter()
	filter.Conditions = append(filter.Conditions, ConditionNode(FilterCondition{Column: "city", Operator: OpEqual, Value: "Hanoi"}))

	out, err := json.Marshal(ToDsQuery(q, filter))
	require.NoError(t, err)
	assert.JSONEq(t, `{"query": {
		"distinct": true,
		"paging": {"limit": 25, "current": 2},
		"orders": [{"column": "city", "direction": "desc"}],
		"group": {"columns": [{"name": "city"}], "aggregations": [{"column": "total", "aggregation": "sum"}]},
		"filter": {"type": "AND", "conditions": [{"column": "city", "operator": "$eq", "value": "Hanoi"}]},
		"fields": [{"name": "city"}, {"name": "total", "alias": "t"}]
	}}`, string(out))
}

func TestToDsQuery_NoSort(t *testing.T) {
	ds := ToDsQuery(DefaultQuery(), NewFilter())
	assert.NotNil(t, ds.Query.Orders)
	assert.Empty(t, ds.Query.Orders)
	assert.Nil(t, ds.Query.Distinct)
	assert.Equal(t, Paging{Limit: 10, Current: 1}, ds.Query.Paging)
}

func TestDsQuery_Key(t *testing.T) {
	a := ToDsQuery(DefaultQuery(), NewFilter())
	b := ToDsQuery(DefaultQuery(), NewFilter())
	assert.Equal(t, a.Key(), b.Key())

	q := DefaultQuery()
	q.Pagination.Index = 2
	assert.NotEqual(t, a.Key(), ToDsQuery(q, NewFilter()).Key())
}

func TestDsDataSource_ColumnIndex(t *testing.T) {
	ds := DsDataSource{Cols: []DsColumn{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, 1, ds.ColumnIndex("b"))
	assert.Equal(t, -1, ds.ColumnIndex("z"))

	empty := EmptyDataSource()
	assert.NotNil(t, empty.Rows)
	assert.NotNil(t, empty.Cols)
}
