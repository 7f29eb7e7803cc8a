package filtertree

import (
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/operators"
)

// Violation is a validation message for one leaf
type Violation = models.Violation

// Validate checks every leaf value against its operator rules. Leaves whose
// column is unknown are checked with the text operator list. The result is
// in pre-order and empty when the tree is valid.
func (t *Tree) Validate(columns []models.ColumnConfig) []Violation {
	violations := []Violation{}
	t.Walk(func(n *Node) bool {
		if !n.IsLeaf() {
			return true
		}
		var column *models.ColumnConfig
		if c, ok := models.FindColumn(columns, n.condition.Column); ok {
			column = &c
		}
		rules := operators.ValueRules(column, n.condition.Operator)
		if msg, ok := operators.CheckValue(rules, n.condition.Value); !ok {
			violations = append(violations, Violation{
				NodeID:  n.id,
				Column:  n.condition.Column,
				Message: msg,
			})
		}
		return true
	})
	return violations
}

// Validate builds a tree from filter and validates it
func Validate(filter models.FilterGroup, columns []models.ColumnConfig, opts ...Option) ([]Violation, error) {
	t, err := Build(&filter, opts...)
	if err != nil {
		return nil, err
	}
	return t.Validate(columns), nil
}
