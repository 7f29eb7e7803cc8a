package models

import (
	"encoding/json"

	"github.com/soltixdb/reportkit/internal/utils"
)

// AggregationType is the code of an aggregation function
type AggregationType string

const (
	AggSum      AggregationType = "sum"
	AggAverage  AggregationType = "avg"
	AggCount    AggregationType = "count"
	AggMin      AggregationType = "min"
	AggMax      AggregationType = "max"
	AggConcat   AggregationType = "concat"
	AggDistinct AggregationType = "distinct"
)

// Field is a selected column
type Field struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// GroupColumn is a grouping column
type GroupColumn struct {
	Name string `json:"name"`
}

// Aggregation applies a function to a column within a group
type Aggregation struct {
	Column      string          `json:"column"`
	Aggregation AggregationType `json:"aggregation"`
	Alias       string          `json:"alias,omitempty"`
}

// Group holds grouping columns and their aggregations
type Group struct {
	Columns      []GroupColumn `json:"columns"`
	Aggregations []Aggregation `json:"aggregations"`
}

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort orders results by one column
type Sort struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Pagination selects a 1-based page
type Pagination struct {
	Limit int `json:"limit"`
	Index int `json:"index"`
}

// Query is the element-facing query envelope
type Query struct {
	Fields     []Field     `json:"fields"`
	Group      Group       `json:"group"`
	Filter     FilterGroup `json:"filter"`
	Pagination Pagination  `json:"pagination"`
	Sort       *Sort       `json:"sort,omitempty"`
	Distinct   *bool       `json:"distinct,omitempty"`
}

// DefaultQuery returns the base query every partial query is merged over
func DefaultQuery() Query {
	return Query{
		Fields: []Field{},
		Group: Group{
			Columns:      []GroupColumn{},
			Aggregations: []Aggregation{},
		},
		Filter: NewFilter(),
		Pagination: Pagination{
			Limit: utils.DefaultPageLimit,
			Index: utils.DefaultPageIndex,
		},
	}
}

// UnmarshalJSON merges the input over DefaultQuery.
func (q *Query) UnmarshalJSON(data []byte) error {
	type plain Query
	p := plain(DefaultQuery())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Fields == nil {
		p.Fields = []Field{}
	}
	if p.Group.Columns == nil {
		p.Group.Columns = []GroupColumn{}
	}
	if p.Group.Aggregations == nil {
		p.Group.Aggregations = []Aggregation{}
	}
	if p.Pagination.Limit <= 0 {
		p.Pagination.Limit = utils.DefaultPageLimit
	}
	if p.Pagination.Index <= 0 {
		p.Pagination.Index = utils.DefaultPageIndex
	}
	*q = Query(p)
	return nil
}

// Paging is the wire form of Pagination
type Paging struct {
	Limit   int `json:"limit"`
	Current int `json:"current"`
}

// DsQueryBody is the body of a wire query
type DsQueryBody struct {
	Distinct *bool       `json:"distinct,omitempty"`
	Paging   Paging      `json:"paging"`
	Orders   []Sort      `json:"orders"`
	Group    Group       `json:"group"`
	Filter   FilterGroup `json:"filter"`
	Fields   []Field     `json:"fields"`
}

// DsQuery is the query shape sent to a data source
type DsQuery struct {
	Query DsQueryBody `json:"query"`
}

// ToDsQuery builds the wire query from q using the already shaped filter.
// A sort becomes a single-element orders list.
func ToDsQuery(q Query, filter FilterGroup) DsQuery {
	orders := []Sort{}
	if q.Sort != nil {
		orders = append(orders, *q.Sort)
	}
	fields := q.Fields
	if fields == nil {
		fields = []Field{}
	}
	return DsQuery{
		Query: DsQueryBody{
			Distinct: q.Distinct,
			Paging: Paging{
				Limit:   q.Pagination.Limit,
				Current: q.Pagination.Index,
			},
			Orders: orders,
			Group:  q.Group,
			Filter: filter,
			Fields: fields,
		},
	}
}

// Key serializes the wire query for cache keys
func (q DsQuery) Key() string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}
