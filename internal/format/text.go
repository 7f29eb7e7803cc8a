package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/soltixdb/reportkit/internal/utils"
)

type textFormatter struct{}

func (textFormatter) check(_ Config, v interface{}) invalidKind {
	return checkCommon(v)
}

func (textFormatter) render(_ *Dispatcher, cfg Config, v interface{}) string {
	return cfg.Common.Prefix + Stringify(v) + cfg.Common.Suffix
}

// Stringify renders a raw value the way a template literal would: numbers
// without trailing zeros, lists joined by commas, objects as JSON.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	}
	if f, ok := utils.ToFloat64(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if items, ok := utils.AsSlice(v); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			if item != nil {
				parts[i] = Stringify(item)
			}
		}
		return strings.Join(parts, ",")
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
