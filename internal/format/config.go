// Package format renders raw cell values into display strings.
//
// A Config is a tagged union on Type. Every variant shares the Common block
// (prefix, suffix and the replacements used for undefined, null and NaN
// values) and carries its own variant options. Unknown types format as text.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type selects the formatter applied to a value.
type Type string

const (
	Text     Type = "text"
	Numeric  Type = "numeric"
	Temporal Type = "temporal"
	Boolean  Type = "boolean"
)

// InvalidReplacement holds the labels shown for invalid values.
type InvalidReplacement struct {
	Undefined string `json:"undefined"`
	Null      string `json:"null"`
	NaN       string `json:"NaN"`
}

// Common is shared by every format variant.
type Common struct {
	Prefix             string             `json:"prefix"`
	Suffix             string             `json:"suffix"`
	InvalidReplacement InvalidReplacement `json:"invalidReplacement"`
	// InvalidTemplate, when non-empty, wraps the replacement label at "$value".
	InvalidTemplate string `json:"invalidTemplate"`
}

// NumericOptions configures numeric rendering. Prefix and Postfix belong to
// the numeric renderer itself; Common.Prefix and Common.Suffix are not used
// for numbers.
type NumericOptions struct {
	// Pattern is a go-humanize float pattern such as "#,###.##". When set it
	// takes precedence over ThousandSeparated and Mantissa.
	Pattern           string `json:"pattern,omitempty"`
	ThousandSeparated bool   `json:"thousandSeparated"`
	Mantissa          int    `json:"mantissa"`
	Prefix            string `json:"prefix,omitempty"`
	Postfix           string `json:"postfix,omitempty"`
}

// TemporalOptions configures date rendering. Format uses date-fns tokens.
type TemporalOptions struct {
	Format string `json:"format"`
}

// BooleanOptions configures boolean labels.
type BooleanOptions struct {
	TruthyLabel string `json:"truthyLabel"`
	FalsyLabel  string `json:"falsyLabel"`
}

// Config is a format description for one column.
type Config struct {
	Type     Type
	Common   Common
	Numeric  NumericOptions
	Temporal TemporalOptions
	Boolean  BooleanOptions
}

// DefaultCommon returns the shared defaults.
func DefaultCommon() Common {
	return Common{
		InvalidReplacement: InvalidReplacement{
			Undefined: "Undefined",
			Null:      "Null",
			NaN:       "NaN",
		},
	}
}

// Default returns the defaults for the given type. Unknown types get text
// defaults but keep their type tag.
func Default(t Type) Config {
	cfg := Config{Type: t, Common: DefaultCommon()}
	switch t {
	case Numeric:
		cfg.Numeric = NumericOptions{ThousandSeparated: true, Mantissa: 2}
	case Temporal:
		cfg.Temporal = TemporalOptions{Format: "MM/dd/yyyy"}
	case Boolean:
		cfg.Boolean = BooleanOptions{TruthyLabel: "True", FalsyLabel: "False"}
	case "":
		cfg.Type = Text
	}
	return cfg
}

type wireConfig struct {
	Type   Type            `json:"type"`
	Common json.RawMessage `json:"common,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// MarshalJSON writes the {type, common, config} shape.
func (c Config) MarshalJSON() ([]byte, error) {
	var variant interface{} = struct{}{}
	switch c.Type {
	case Numeric:
		variant = c.Numeric
	case Temporal:
		variant = c.Temporal
	case Boolean:
		variant = c.Boolean
	}

	common, err := json.Marshal(c.Common)
	if err != nil {
		return nil, err
	}
	config, err := json.Marshal(variant)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireConfig{Type: c.Type, Common: common, Config: config})
}

// UnmarshalJSON merges the input over the defaults of its declared type.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	cfg := Default(w.Type)
	if len(w.Common) > 0 && !isNull(w.Common) {
		if err := json.Unmarshal(w.Common, &cfg.Common); err != nil {
			return fmt.Errorf("format common: %w", err)
		}
	}

	if len(w.Config) > 0 && !isNull(w.Config) {
		var err error
		switch cfg.Type {
		case Numeric:
			err = cfg.Numeric.unmarshal(w.Config)
		case Temporal:
			err = json.Unmarshal(w.Config, &cfg.Temporal)
		case Boolean:
			err = json.Unmarshal(w.Config, &cfg.Boolean)
		}
		if err != nil {
			return fmt.Errorf("format %s config: %w", cfg.Type, err)
		}
	}

	*c = cfg
	return nil
}

// unmarshal accepts either a pattern string or an options object.
func (o *NumericOptions) unmarshal(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var pattern string
		if err := json.Unmarshal(data, &pattern); err != nil {
			return err
		}
		o.Pattern = pattern
		return nil
	}
	return json.Unmarshal(data, o)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
