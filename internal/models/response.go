package models

import "github.com/soltixdb/reportkit/internal/format"

// HealthResponse represents health check response
type HealthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Version    string                     `json:"version"`
	Namespaces map[string]NamespaceHealth `json:"namespaces,omitempty"`
}

// NamespaceHealth reports the session state of one namespace
type NamespaceHealth struct {
	Refetch     int64                  `json:"refetch"`
	DataSources []string               `json:"dataSources"`
	Cache       map[string]interface{} `json:"cache"`
}

// OperatorOptionResponse is one operator entry for a column type
type OperatorOptionResponse struct {
	Label        string   `json:"label"`
	Value        Operator `json:"value"`
	RequireValue bool     `json:"requireValue"`
	HasValidator bool     `json:"hasValidator"`
}

// OperatorListResponse lists the operators legal for a column type
type OperatorListResponse struct {
	Type      ColumnType               `json:"type"`
	Operators []OperatorOptionResponse `json:"operators"`
}

// AggregationOption is one aggregation entry
type AggregationOption struct {
	Label string          `json:"label"`
	Value AggregationType `json:"value"`
}

// AggregationListResponse lists the aggregations legal for a column type
type AggregationListResponse struct {
	Type         ColumnType          `json:"type"`
	Aggregations []AggregationOption `json:"aggregations"`
	Default      AggregationType     `json:"default"`
}

// PresetResponse describes one relative date preset
type PresetResponse struct {
	Label  string    `json:"label"`
	Tokens [2]string `json:"tokens"`
	Range  [2]string `json:"range"`
}

// PresetListResponse lists presets resolved at one instant
type PresetListResponse struct {
	Now     string           `json:"now"`
	Presets []PresetResponse `json:"presets"`
}

// TreeNodeView is a flattened filter tree node
type TreeNodeView struct {
	ID       string     `json:"id"`
	Level    int        `json:"level"`
	IsRoot   bool       `json:"isRoot"`
	IsGroup  bool       `json:"isGroup"`
	IsLeaf   bool       `json:"isLeaf"`
	Parent   string     `json:"parent,omitempty"`
	Children []string   `json:"children"`
	Data     FilterNode `json:"data"`
}

// FilterTreeResponse is the editable tree of a filter, in pre-order
type FilterTreeResponse struct {
	Root  string         `json:"root"`
	Nodes []TreeNodeView `json:"nodes"`
}

// WireFilterResponse holds a filter ready for transport
type WireFilterResponse struct {
	Filter FilterGroup `json:"filter"`
}

// Violation is a non-fatal validation message for one leaf
type Violation struct {
	NodeID  string `json:"nodeId"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ValidateFilterResponse reports leaf violations
type ValidateFilterResponse struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// FormatResponse holds one display string per input value
type FormatResponse struct {
	Config format.Config `json:"config"`
	Values []string      `json:"values"`
}

// DataColumn is a visible table column
type DataColumn struct {
	Key     string       `json:"key"`
	DataKey string       `json:"dataKey"`
	Title   string       `json:"title"`
	Width   int          `json:"width"`
	Fixed   string       `json:"fixed,omitempty"`
	Column  ColumnConfig `json:"column"`
}

// TableCell is a raw value with its display string
type TableCell struct {
	Value       interface{}  `json:"value"`
	FormatValue string       `json:"formatValue"`
	Column      ColumnConfig `json:"column"`
}

// TableRow maps column names to cells
type TableRow map[string]TableCell

// ElementQueryResponse is the state of an element after a fetch
type ElementQueryResponse struct {
	DataSource string          `json:"dataSource"`
	Cols       []DsColumn      `json:"cols"`
	Rows       [][]interface{} `json:"rows"`
	Count      int64           `json:"count"`
	Loading    bool            `json:"loading"`
	Stale      bool            `json:"stale"`
	Columns    []DataColumn    `json:"columns,omitempty"`
	Table      []TableRow      `json:"table,omitempty"`
	Series     []ChartData     `json:"series,omitempty"`
}

// RefetchResponse reports the new refetch epoch
type RefetchResponse struct {
	Namespace string `json:"namespace"`
	Refetch   int64  `json:"refetch"`
	Published bool   `json:"published"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
