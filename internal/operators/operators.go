// Package operators is the catalog of filter comparison operators and the
// per column type lists that decide which of them a filter leaf may use.
package operators

import (
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/utils"
)

// Validator reports whether value is acceptable for the operator on a column
// of the given type.
type Validator func(value interface{}, columnType models.ColumnType) bool

// Option is one operator entry
type Option struct {
	Label    string
	Value    models.Operator
	Validate Validator
}

// HasValidator reports whether the option checks its value
func (o Option) HasValidator() bool {
	return o.Validate != nil
}

var (
	Equal         = Option{Label: "Equal", Value: models.OpEqual}
	NotEqual      = Option{Label: "Not equal", Value: models.OpNotEqual}
	Greater       = Option{Label: "Greater than", Value: models.OpGreater}
	GreaterEqual  = Option{Label: "Greater or equal", Value: models.OpGreaterEqual}
	Less          = Option{Label: "Lower than", Value: models.OpLess}
	LessEqual     = Option{Label: "Lower or equal", Value: models.OpLessEqual}
	IsTrue        = Option{Label: "Is True", Value: models.OpIsTrue}
	IsFalse       = Option{Label: "Is False", Value: models.OpIsFalse}
	IsEmpty       = Option{Label: "Is empty", Value: models.OpIsEmpty}
	IsNotEmpty    = Option{Label: "Is not empty", Value: models.OpIsNotEmpty}
	IsNull        = Option{Label: "Is null", Value: models.OpIsNull}
	IsNotNull     = Option{Label: "Is not null", Value: models.OpIsNotNull}
	Contains      = Option{Label: "Contains", Value: models.OpContains}
	NotContains   = Option{Label: "Not contain", Value: models.OpNotContains}
	StartsWith    = Option{Label: "Starts with", Value: models.OpStartsWith}
	NotStartsWith = Option{Label: "Not start with", Value: models.OpNotStartsWith}
	EndsWith      = Option{Label: "Ends with", Value: models.OpEndsWith}
	NotEndsWith   = Option{Label: "Not end with", Value: models.OpNotEndsWith}
	InRange       = Option{Label: "In range", Value: models.OpInRange, Validate: validateInRange}
	In            = Option{Label: "In", Value: models.OpIn, Validate: validateIn}
	NotIn         = Option{Label: "Not in", Value: models.OpNotIn, Validate: validateIn}
)

var catalog = []Option{
	Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
	IsTrue, IsFalse, IsEmpty, IsNotEmpty, IsNull, IsNotNull,
	Contains, NotContains, StartsWith, NotStartsWith, EndsWith, NotEndsWith,
	InRange, In, NotIn,
}

var byColumnType = map[models.ColumnType][]Option{
	models.ColumnBoolean: {IsTrue, IsFalse, IsNull, IsNotNull},
	models.ColumnNumber: {
		Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
		In, NotIn, InRange, IsNull, IsNotNull,
	},
	models.ColumnDate:     dateOperators,
	models.ColumnDateTime: dateOperators,
	models.ColumnText:     textOperators,
}

var dateOperators = []Option{
	Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
	InRange, IsNull, IsNotNull,
}

var textOperators = []Option{
	Equal, NotEqual, IsEmpty, IsNotEmpty,
	Contains, NotContains, StartsWith, NotStartsWith, EndsWith, NotEndsWith,
	IsNull, IsNotNull, In, NotIn,
}

var noValue = map[models.Operator]bool{
	models.OpIsTrue:     true,
	models.OpIsFalse:    true,
	models.OpIsNull:     true,
	models.OpIsNotNull:  true,
	models.OpIsEmpty:    true,
	models.OpIsNotEmpty: true,
}

// ForColumnType returns the operators legal for t in display order. Unknown
// types get the text list.
func ForColumnType(t models.ColumnType) []Option {
	list, ok := byColumnType[t]
	if !ok {
		list = textOperators
	}
	return clone(list)
}

// Find returns the catalog entry for op
func Find(op models.Operator) (Option, bool) {
	for _, o := range catalog {
		if o.Value == op {
			return o, true
		}
	}
	return Option{}, false
}

// FindFor returns op only when it is legal for t
func FindFor(t models.ColumnType, op models.Operator) (Option, bool) {
	return findIn(ForColumnType(t), op)
}

// RequireValue reports whether op takes a value
func RequireValue(op models.Operator) bool {
	return !noValue[op]
}

func clone(list []Option) []Option {
	out := make([]Option, len(list))
	copy(out, list)
	return out
}

func validateInRange(value interface{}, columnType models.ColumnType) bool {
	items, ok := utils.AsSlice(value)
	if !ok || len(items) != 2 {
		return false
	}
	switch columnType {
	case models.ColumnNumber:
		return all(items, utils.IsNumber)
	case models.ColumnDate, models.ColumnDateTime:
		if all(items, func(v interface{}) bool { return utils.IsDateString(v) }) {
			return true
		}
		_, ok := expression.Lookup(items)
		return ok
	default:
		return false
	}
}

func validateIn(value interface{}, columnType models.ColumnType) bool {
	items, ok := utils.AsSlice(value)
	if !ok {
		return false
	}
	switch columnType {
	case models.ColumnNumber:
		return all(items, utils.IsNumber)
	case models.ColumnText:
		return all(items, utils.IsString)
	default:
		return false
	}
}

func all(items []interface{}, pred func(interface{}) bool) bool {
	for _, v := range items {
		if !pred(v) {
			return false
		}
	}
	return true
}
