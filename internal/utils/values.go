package utils

import (
	"math"
	"reflect"
	"time"
)

// dateLayouts are tried in order when no explicit layout is given.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// IsNumber reports whether v is a number other than NaN.
func IsNumber(v interface{}) bool {
	f, ok := ToFloat64(v)
	if !ok {
		return false
	}
	return !math.IsNaN(f)
}

// IsString reports whether v is a string.
func IsString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// IsDateString reports whether v is a string holding a date. With no layouts
// any of the common ISO forms is accepted; otherwise v must match one of the
// given Go layouts.
func IsDateString(v interface{}, layouts ...string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if len(layouts) == 0 {
		layouts = dateLayouts
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ParseDate parses s with the first matching ISO layout.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsEmpty implements the filter emptiness rule. A slice is empty when every
// element is falsy and not the number zero; a scalar is empty when it is falsy
// and not the number zero. false counts as empty, 0 does not.
func IsEmpty(v interface{}) bool {
	if items, ok := AsSlice(v); ok {
		for _, item := range items {
			if !isBlank(item) {
				return false
			}
		}
		return true
	}
	return isBlank(v)
}

func isBlank(v interface{}) bool {
	if f, ok := ToFloat64(v); ok {
		// NaN is falsy, every other number including 0 is kept
		return math.IsNaN(f)
	}
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	}
	return false
}

// AsSlice returns the elements of v when v is a slice or array.
func AsSlice(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]interface{}); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a scalar payload, not a list
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
