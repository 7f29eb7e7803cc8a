package format

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/soltixdb/reportkit/internal/utils"
)

const maxMantissa = 9

type numericFormatter struct{}

func (numericFormatter) check(_ Config, v interface{}) invalidKind {
	if kind := checkCommon(v); kind != validValue {
		return kind
	}
	if _, ok := utils.ParseFloat(v); !ok {
		return invalidNaN
	}
	return validValue
}

// render ignores Common.Prefix and Common.Suffix; numbers carry their own.
func (numericFormatter) render(_ *Dispatcher, cfg Config, v interface{}) string {
	n, _ := utils.ParseFloat(v)
	opts := cfg.Numeric
	return opts.Prefix + formatFloat(opts.Layout(), n) + opts.Postfix
}

// Layout returns the go-humanize pattern for the options.
func (o NumericOptions) Layout() string {
	if o.Pattern != "" {
		return o.Pattern
	}
	mantissa := o.Mantissa
	if mantissa < 0 {
		mantissa = 0
	}
	if mantissa > maxMantissa {
		mantissa = maxMantissa
	}

	var b strings.Builder
	if o.ThousandSeparated {
		b.WriteString("#,###.")
	} else {
		b.WriteString("####.")
	}
	b.WriteString(strings.Repeat("#", mantissa))
	return b.String()
}

// formatFloat falls back to the humanize default when pattern is malformed.
func formatFloat(pattern string, n float64) (out string) {
	defer func() {
		if recover() != nil {
			out = humanize.FormatFloat("", n)
		}
	}()
	return humanize.FormatFloat(pattern, n)
}
