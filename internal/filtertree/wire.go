package filtertree

import (
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/utils"
)

// IsEmpty reports whether a leaf value counts as empty when pruning. An
// array is empty when every element is; a scalar is empty when it is nil,
// "", false or NaN. Zero is never empty.
func IsEmpty(value interface{}) bool {
	return utils.IsEmpty(value)
}

// ToWireFilter shapes a filter for transport. The input is not modified.
//
// With prune set, leaves whose value is empty are dropped from their group;
// groups are kept even when they end up with no conditions. In-range leaves
// holding a preset token pair get the concrete range resolved now.
func ToWireFilter(filter models.FilterGroup, prune bool, resolver *expression.Resolver) models.FilterGroup {
	if resolver == nil {
		resolver = expression.NewResolver(nil, nil)
	}

	root := filter.Clone()
	stack := []models.FilterNode{{Kind: models.KindGroup, Group: &root}}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsGroup() {
			if node.Group == nil {
				continue
			}
			if prune {
				kept := make([]models.FilterNode, 0, len(node.Group.Conditions))
				for _, c := range node.Group.Conditions {
					if c.IsGroup() || c.Condition == nil || !IsEmpty(c.Condition.Value) {
						kept = append(kept, c)
					}
				}
				node.Group.Conditions = kept
			}
			stack = append(stack, node.Group.Conditions...)
			continue
		}

		cond := node.Condition
		if cond == nil || cond.Operator != models.OpInRange {
			continue
		}
		if bounds, ok := resolver.Resolve(cond.Value); ok {
			cond.Value = []interface{}{bounds[0], bounds[1]}
		}
	}
	return root
}

// ToWireFilter shapes the current tree for transport
func (t *Tree) ToWireFilter(prune bool, resolver *expression.Resolver) models.FilterGroup {
	return ToWireFilter(t.ToFilter(), prune, resolver)
}

// ToDsQuery builds the wire query of q with its filter shaped for transport
func ToDsQuery(q models.Query, prune bool, resolver *expression.Resolver) models.DsQuery {
	return models.ToDsQuery(q, ToWireFilter(q.Filter, prune, resolver))
}
