package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operator is the symbolic code of a comparison operator
type Operator string

const (
	OpEqual         Operator = "$eq"
	OpNotEqual      Operator = "$ne"
	OpGreater       Operator = "$gt"
	OpGreaterEqual  Operator = "$gte"
	OpLess          Operator = "$lt"
	OpLessEqual     Operator = "$lte"
	OpIsTrue        Operator = "is_true"
	OpIsFalse       Operator = "is_false"
	OpIsEmpty       Operator = "empty"
	OpIsNotEmpty    Operator = "not_empty"
	OpIsNull        Operator = "null"
	OpIsNotNull     Operator = "not_null"
	OpContains      Operator = "contains"
	OpNotContains   Operator = "not_contain"
	OpStartsWith    Operator = "starts_with"
	OpNotStartsWith Operator = "not_start_with"
	OpEndsWith      Operator = "ends_with"
	OpNotEndsWith   Operator = "not_end_with"
	OpInRange       Operator = "in_range"
	OpIn            Operator = "in"
	OpNotIn         Operator = "not_in"
)

// Logic combines the conditions of a group
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Valid reports whether l is AND or OR
func (l Logic) Valid() bool {
	return l == LogicAnd || l == LogicOr
}

// FilterCondition is a single column/operator/value comparison
type FilterCondition struct {
	Column   string      `json:"column"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`

	// set when a decoded leaf had no "value" key, so it encodes the same way
	valueAbsent bool
}

// UnmarshalJSON records whether the "value" key was present.
func (c *FilterCondition) UnmarshalJSON(data []byte) error {
	type plain FilterCondition
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, hasValue := keys["value"]
	*c = FilterCondition(p)
	c.valueAbsent = !hasValue
	return nil
}

// MarshalJSON omits "value" for a leaf decoded without one whose value is
// still unset.
func (c FilterCondition) MarshalJSON() ([]byte, error) {
	if c.valueAbsent && c.Value == nil {
		return json.Marshal(struct {
			Column   string   `json:"column"`
			Operator Operator `json:"operator"`
		}{c.Column, c.Operator})
	}
	type plain FilterCondition
	return json.Marshal(plain(c))
}

// FilterGroup combines nodes with AND or OR
type FilterGroup struct {
	Type       Logic        `json:"type"`
	Conditions []FilterNode `json:"conditions"`
}

// NodeKind tags a FilterNode
type NodeKind int

const (
	KindCondition NodeKind = iota
	KindGroup
)

func (k NodeKind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "condition"
}

// FilterNode is either a group or a condition. The kind is decided once when
// decoding, by the presence of the "conditions" key.
type FilterNode struct {
	Kind      NodeKind
	Group     *FilterGroup
	Condition *FilterCondition
}

// NewFilter returns an empty AND group
func NewFilter() FilterGroup {
	return FilterGroup{Type: LogicAnd, Conditions: []FilterNode{}}
}

// GroupNode wraps a group
func GroupNode(g FilterGroup) FilterNode {
	return FilterNode{Kind: KindGroup, Group: &g}
}

// ConditionNode wraps a condition
func ConditionNode(c FilterCondition) FilterNode {
	return FilterNode{Kind: KindCondition, Condition: &c}
}

// IsGroup reports whether the node is a group
func (n FilterNode) IsGroup() bool {
	return n.Kind == KindGroup
}

// MarshalJSON writes the payload without any tag.
func (n FilterNode) MarshalJSON() ([]byte, error) {
	if n.Kind == KindGroup {
		if n.Group == nil {
			return json.Marshal(NewFilter())
		}
		return json.Marshal(n.Group)
	}
	if n.Condition == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Condition)
}

// UnmarshalJSON discriminates a group from a condition.
func (n *FilterNode) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("filter node must be an object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("filter node must not be null")
	}

	if _, ok := fields["conditions"]; ok {
		var g FilterGroup
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*n = GroupNode(g)
		return nil
	}

	var c FilterCondition
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*n = ConditionNode(c)
	return nil
}

// UnmarshalJSON keeps a missing or null conditions list as an empty slice.
func (g *FilterGroup) UnmarshalJSON(data []byte) error {
	type plain FilterGroup
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Type == "" {
		p.Type = LogicAnd
	}
	if p.Conditions == nil {
		p.Conditions = []FilterNode{}
	}
	*g = FilterGroup(p)
	return nil
}

// MarshalJSON writes conditions as an array even when empty.
func (g FilterGroup) MarshalJSON() ([]byte, error) {
	type plain FilterGroup
	p := plain(g)
	if p.Conditions == nil {
		p.Conditions = []FilterNode{}
	}
	return json.Marshal(p)
}

// Clone returns a deep copy of the group
func (g FilterGroup) Clone() FilterGroup {
	out := FilterGroup{Type: g.Type, Conditions: make([]FilterNode, len(g.Conditions))}
	for i, n := range g.Conditions {
		out.Conditions[i] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of the node
func (n FilterNode) Clone() FilterNode {
	switch {
	case n.Kind == KindGroup && n.Group != nil:
		return GroupNode(n.Group.Clone())
	case n.Kind == KindGroup:
		return GroupNode(NewFilter())
	case n.Condition != nil:
		return ConditionNode(n.Condition.Clone())
	}
	return n
}

// Clone returns a deep copy of the condition
func (c FilterCondition) Clone() FilterCondition {
	c.Value = CloneValue(c.Value)
	return c
}

// CloneValue deep copies JSON-shaped values
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}
		return out
	case json.RawMessage:
		return json.RawMessage(bytes.Clone(t))
	}
	return v
}

// ParseFilter decodes a persisted filter. Empty input yields NewFilter.
func ParseFilter(data []byte) (FilterGroup, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return NewFilter(), nil
	}
	var g FilterGroup
	if err := json.Unmarshal(data, &g); err != nil {
		return FilterGroup{}, fmt.Errorf("failed to parse filter: %w", err)
	}
	return g, nil
}
