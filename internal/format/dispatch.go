package format

import (
	"errors"
	"strings"
	"time"

	"github.com/soltixdb/reportkit/internal/utils"
)

// ErrInvalidValue reports that a value cannot be rendered by its formatter.
var ErrInvalidValue = errors.New("invalid value")

type undefined struct{}

// Undefined marks a value that is absent, as opposed to an explicit nil (null).
var Undefined interface{} = undefined{}

// invalidKind names which replacement label applies to an invalid value.
type invalidKind int

const (
	validValue invalidKind = iota
	invalidUndefined
	invalidNull
	invalidNaN
	// invalidOther has no replacement label; it renders as an empty label.
	invalidOther
)

// formatter renders one variant. check may widen the shared invalid test.
type formatter interface {
	check(cfg Config, v interface{}) invalidKind
	render(d *Dispatcher, cfg Config, v interface{}) string
}

var formatters = map[Type]formatter{
	Text:     textFormatter{},
	Numeric:  numericFormatter{},
	Temporal: temporalFormatter{},
	Boolean:  booleanFormatter{},
}

// Dispatcher applies format configs. The location is used when rendering
// dates.
type Dispatcher struct {
	loc *time.Location
}

// NewDispatcher returns a dispatcher rendering dates in loc (UTC when nil).
func NewDispatcher(loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{loc: loc}
}

var defaultDispatcher = NewDispatcher(time.UTC)

// Value formats v with the package default dispatcher.
func Value(cfg Config, v interface{}) string {
	return defaultDispatcher.Value(cfg, v)
}

// Location returns the dispatcher time zone.
func (d *Dispatcher) Location() *time.Location {
	return d.loc
}

// Value formats v according to cfg.
func (d *Dispatcher) Value(cfg Config, v interface{}) string {
	f := lookup(cfg.Type)
	if kind := f.check(cfg, v); kind != validValue {
		return replaceInvalid(cfg.Common, kind)
	}
	return f.render(d, cfg, v)
}

// Values formats every value with the same config.
func (d *Dispatcher) Values(cfg Config, values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = d.Value(cfg, v)
	}
	return out
}

func lookup(t Type) formatter {
	if f, ok := formatters[t]; ok {
		return f
	}
	return formatters[Text]
}

// checkCommon is the invalid test shared by every formatter.
func checkCommon(v interface{}) invalidKind {
	switch {
	case v == Undefined:
		return invalidUndefined
	case v == nil:
		return invalidNull
	case utils.IsNaN(v):
		return invalidNaN
	}
	return validValue
}

func replaceInvalid(common Common, kind invalidKind) string {
	var label string
	switch kind {
	case invalidUndefined:
		label = common.InvalidReplacement.Undefined
	case invalidNull:
		label = common.InvalidReplacement.Null
	case invalidNaN:
		label = common.InvalidReplacement.NaN
	}
	if common.InvalidTemplate != "" {
		return strings.Replace(common.InvalidTemplate, "$value", label, 1)
	}
	return label
}
