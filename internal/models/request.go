package models

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/format"
)

// FilterTreeRequest asks for the editable tree of a persisted filter
type FilterTreeRequest struct {
	Filter *FilterGroup `json:"filter"`
}

// WireFilterRequest asks for the wire form of a filter
type WireFilterRequest struct {
	Filter FilterGroup `json:"filter"`
	Prune  bool        `json:"prune"`
}

// Validate checks the logic of every group
func (r *WireFilterRequest) Validate() error {
	return validateLogic(r.Filter)
}

// ValidateFilterRequest validates filter values against the given columns
type ValidateFilterRequest struct {
	Filter  FilterGroup    `json:"filter"`
	Columns []ColumnConfig `json:"columns"`
}

// Validate checks the logic of every group
func (r *ValidateFilterRequest) Validate() error {
	return validateLogic(r.Filter)
}

// FormatRequest formats values with one config
type FormatRequest struct {
	Config format.Config  `json:"config"`
	Values []interface{} `json:"values"`
}

// Validate requires at least one value
func (r *FormatRequest) Validate() error {
	if len(r.Values) == 0 {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "'values' is required",
		}
	}
	return nil
}

// ElementQueryRequest runs an element query against a data source
type ElementQueryRequest struct {
	DataSource          string         `json:"dataSource"`
	Query               Query          `json:"query"`
	Columns             []ColumnConfig `json:"columns,omitempty"`
	UseCount            *bool          `json:"useCount,omitempty"`
	RemoveFilterOnEmpty *bool          `json:"removeFilterOnEmpty,omitempty"`
	Chart               *ChartOptions  `json:"chart,omitempty"`
}

// Validate checks the query shape. A missing data source is reported by the
// element context, not here.
func (r *ElementQueryRequest) Validate() error {
	if err := validateLogic(r.Query.Filter); err != nil {
		return err
	}
	if r.Query.Sort != nil {
		switch r.Query.Sort.Direction {
		case SortAsc, SortDesc:
		default:
			return &fiber.Error{
				Code:    fiber.StatusBadRequest,
				Message: "sort direction must be 'asc' or 'desc'",
			}
		}
	}
	return nil
}

// RefetchRequest bumps the refetch epoch of a namespace
type RefetchRequest struct {
	Namespace string `json:"namespace"`
	Reason    string `json:"reason,omitempty"`
}

// Validate requires a namespace
func (r *RefetchRequest) Validate() error {
	if r.Namespace == "" {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "'namespace' is required",
		}
	}
	return nil
}

func validateLogic(g FilterGroup) error {
	stack := []FilterGroup{g}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !cur.Type.Valid() {
			return &fiber.Error{
				Code:    fiber.StatusBadRequest,
				Message: "filter group type must be 'AND' or 'OR'",
			}
		}
		for _, n := range cur.Conditions {
			if n.IsGroup() && n.Group != nil {
				stack = append(stack, *n.Group)
			}
		}
	}
	return nil
}
