package operators

import (
	"reflect"

	"github.com/soltixdb/reportkit/internal/models"
)

// InputKind names the value input a filter leaf needs
type InputKind string

const (
	InputNone   InputKind = "none"
	InputText   InputKind = "text"
	InputNumber InputKind = "number"
	InputDate   InputKind = "date"
	InputSelect InputKind = "select"
	InputIn     InputKind = "in"
)

// ColumnOperators returns the operator list for a possibly unknown column
func ColumnOperators(column *models.ColumnConfig) []Option {
	if column == nil {
		return ForColumnType(models.ColumnText)
	}
	return ForColumnType(column.Type)
}

// InputKindFor picks the value input for a leaf. The operator only counts
// when it is legal for the column.
func InputKindFor(column *models.ColumnConfig, op models.Operator, cfg models.FilterBuilderConfig) InputKind {
	opt, ok := findIn(ColumnOperators(column), op)
	if !ok {
		return InputText
	}
	if !RequireValue(opt.Value) {
		return InputNone
	}
	if column != nil {
		if _, ok := cfg.Select(column.Name); ok {
			return InputSelect
		}
	}
	if opt.Value == models.OpIn || opt.Value == models.OpNotIn {
		return InputIn
	}
	if column == nil {
		return InputNone
	}
	switch column.Type {
	case models.ColumnText:
		return InputText
	case models.ColumnNumber:
		return InputNumber
	case models.ColumnDate, models.ColumnDateTime:
		return InputDate
	default:
		return InputNone
	}
}

// Rule is one value check with its failure message
type Rule struct {
	Message string
	Check   func(value interface{}) bool
}

const (
	MessageRequired = "Required value"
	MessageMismatch = "Value is not match with current operator"
)

// ValueRules returns the checks a leaf value must pass. Operators that take
// no value, or that are not legal for the column, have no rules.
func ValueRules(column *models.ColumnConfig, op models.Operator) []Rule {
	opt, ok := findIn(ColumnOperators(column), op)
	if !ok || !RequireValue(opt.Value) {
		return nil
	}

	rules := []Rule{{Message: MessageRequired, Check: present}}
	if column != nil && opt.Validate != nil {
		columnType := column.Type
		rules = append(rules, Rule{
			Message: MessageMismatch,
			Check: func(value interface{}) bool {
				return opt.Validate(value, columnType)
			},
		})
	}
	return rules
}

// CheckValue returns the message of the first failing rule
func CheckValue(rules []Rule, value interface{}) (string, bool) {
	for _, r := range rules {
		if !r.Check(value) {
			return r.Message, false
		}
	}
	return "", true
}

func findIn(list []Option, op models.Operator) (Option, bool) {
	if op == "" {
		return Option{}, false
	}
	for _, o := range list {
		if o.Value == op {
			return o, true
		}
	}
	return Option{}, false
}

// present rejects nil, empty strings and empty collections.
func present(value interface{}) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return s != ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}
