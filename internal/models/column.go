package models

import (
	"encoding/json"
	"fmt"

	"github.com/soltixdb/reportkit/internal/format"
)

// ColumnType is the declared data type of a column
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnDate     ColumnType = "date"
	ColumnDateTime ColumnType = "datetime"
	ColumnBoolean  ColumnType = "boolean"
)

// ColumnTypes lists every declared column type
var ColumnTypes = []ColumnType{ColumnText, ColumnNumber, ColumnDate, ColumnDateTime, ColumnBoolean}

// IsTemporal reports whether the type holds dates
func (t ColumnType) IsTemporal() bool {
	return t == ColumnDate || t == ColumnDateTime
}

// ColumnConfig describes how an element column is displayed. Name is the
// column identity within a dataset.
type ColumnConfig struct {
	Name      string        `json:"name"`
	Type      ColumnType    `json:"type"`
	Title     string        `json:"title"`
	Width     int           `json:"width"`
	Visible   bool          `json:"visible"`
	AutoWidth bool          `json:"autoWidth"`
	Sortable  bool          `json:"sortable"`
	Format    format.Config `json:"format"`
}

// DefaultColumn returns the base column every partial config is merged over
func DefaultColumn() ColumnConfig {
	return ColumnConfig{
		Type:      ColumnText,
		Width:     100,
		Visible:   true,
		AutoWidth: true,
		Format:    format.Default(format.Text),
	}
}

// UnmarshalJSON merges the input over DefaultColumn. The format defaults are
// chosen by format.type.
func (c *ColumnConfig) UnmarshalJSON(data []byte) error {
	type plain ColumnConfig
	col := plain(DefaultColumn())
	if err := json.Unmarshal(data, &col); err != nil {
		return err
	}
	*c = ColumnConfig(col)
	return nil
}

// ParseColumns decodes a JSON array of partial column configs
func ParseColumns(data []byte) ([]ColumnConfig, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse columns: %w", err)
	}
	return DefaultColumns(raw)
}

// DefaultColumns merges every partial config over the base column. A null or
// empty entry becomes the base column.
func DefaultColumns(partials []json.RawMessage) ([]ColumnConfig, error) {
	columns := make([]ColumnConfig, len(partials))
	for i, item := range partials {
		if len(item) == 0 || string(item) == "null" {
			columns[i] = DefaultColumn()
			continue
		}
		if err := json.Unmarshal(item, &columns[i]); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
	}
	return columns, nil
}

// FindColumn returns the column with the given name
func FindColumn(columns []ColumnConfig, name string) (ColumnConfig, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnConfig{}, false
}
