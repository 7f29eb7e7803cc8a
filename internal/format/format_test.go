package format

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	num := Default(Numeric)
	assert.True(t, num.Numeric.ThousandSeparated)
	assert.Equal(t, 2, num.Numeric.Mantissa)
	assert.Equal(t, "Undefined", num.Common.InvalidReplacement.Undefined)
	assert.Equal(t, "Null", num.Common.InvalidReplacement.Null)
	assert.Equal(t, "NaN", num.Common.InvalidReplacement.NaN)

	assert.Equal(t, "MM/dd/yyyy", Default(Temporal).Temporal.Format)
	assert.Equal(t, "True", Default(Boolean).Boolean.TruthyLabel)
	assert.Equal(t, "False", Default(Boolean).Boolean.FalsyLabel)
	assert.Equal(t, Text, Default("").Type)
}

func TestValue_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		value    interface{}
		expected string
	}{
		{"numeric undefined", Default(Numeric), Undefined, "Undefined"},
		{"numeric null", Default(Numeric), nil, "Null"},
		{"numeric NaN", Default(Numeric), math.NaN(), "NaN"},
		{"text null", Default(Text), nil, "Null"},
		{"boolean undefined", Default(Boolean), Undefined, "Undefined"},
		{"temporal null", Default(Temporal), nil, "Null"},
		{"string NaN is plain text", Default(Text), "NaN", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Value(tt.cfg, tt.value))
		})
	}
}

func TestValue_InvalidTemplate(t *testing.T) {
	cfg := Default(Numeric)
	cfg.Common.InvalidTemplate = "<$value>"
	assert.Equal(t, "<Undefined>", Value(cfg, Undefined))

	cfg.Common.InvalidReplacement.Null = "-"
	assert.Equal(t, "<->", Value(cfg, nil))
}

func TestValue_Text(t *testing.T) {
	cfg := Default(Text)
	cfg.Common.Prefix = "["
	cfg.Common.Suffix = "]"

	assert.Equal(t, "[abc]", Value(cfg, "abc"))
	assert.Equal(t, "[12.5]", Value(cfg, 12.5))
	assert.Equal(t, "[3]", Value(cfg, 3))
	assert.Equal(t, "[false]", Value(cfg, false))
	assert.Equal(t, "[a,b]", Value(cfg, []interface{}{"a", "b"}))
}

func TestValue_UnknownTypeFallsBackToText(t *testing.T) {
	cfg := Default("currency")
	cfg.Common.Suffix = "!"
	assert.Equal(t, "hi!", Value(cfg, "hi"))
}

func TestValue_Numeric(t *testing.T) {
	tests := []struct {
		name     string
		opts     NumericOptions
		value    interface{}
		expected string
	}{
		{"defaults", NumericOptions{ThousandSeparated: true, Mantissa: 2}, 1234.5, "1,234.50"},
		{"no separator", NumericOptions{Mantissa: 1}, 1234.56, "1234.6"},
		{"integer mantissa", NumericOptions{ThousandSeparated: true}, 1234567, "1,234,567"},
		{"negative", NumericOptions{ThousandSeparated: true, Mantissa: 2}, -1500, "-1,500.00"},
		{"zero", NumericOptions{ThousandSeparated: true, Mantissa: 2}, 0, "0.00"},
		{"numeric string", NumericOptions{ThousandSeparated: true, Mantissa: 0}, "2500", "2,500"},
		{"own prefix and postfix", NumericOptions{Mantissa: 0, Prefix: "$", Postfix: " USD"}, 42, "$42 USD"},
		{"explicit pattern", NumericOptions{Pattern: "#.###,##"}, 1234.5, "1.234,50"},
		{"malformed pattern falls back", NumericOptions{Pattern: "x#,##"}, 1234.5, "1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(Numeric)
			cfg.Numeric = tt.opts
			assert.Equal(t, tt.expected, Value(cfg, tt.value))
		})
	}
}

func TestValue_NumericIgnoresCommonAffixes(t *testing.T) {
	cfg := Default(Numeric)
	cfg.Common.Prefix = "P"
	cfg.Common.Suffix = "S"
	assert.Equal(t, "10.00", Value(cfg, 10))
}

func TestValue_NumericNonNumber(t *testing.T) {
	cfg := Default(Numeric)
	assert.Equal(t, "NaN", Value(cfg, "abc"))
	assert.Equal(t, "NaN", Value(cfg, true))
}

func TestValue_Boolean(t *testing.T) {
	cfg := Default(Boolean)
	cfg.Boolean = BooleanOptions{TruthyLabel: "Yes", FalsyLabel: "No"}

	assert.Equal(t, "Yes", Value(cfg, true))
	assert.Equal(t, "No", Value(cfg, false))
	assert.Equal(t, "Yes", Value(cfg, "TRUE"))
	assert.Equal(t, "No", Value(cfg, "yes"))
	assert.Equal(t, "No", Value(cfg, 1))

	cfg.Common.Prefix = "("
	cfg.Common.Suffix = ")"
	assert.Equal(t, "(Yes)", Value(cfg, true))
}

func TestValue_Temporal(t *testing.T) {
	cfg := Default(Temporal)
	assert.Equal(t, "03/01/2024", Value(cfg, "2024-03-01"))
	assert.Equal(t, "03/01/2024", Value(cfg, "2024-03-01T10:30:00Z"))
	assert.Equal(t, "03/01/2024", Value(cfg, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	cfg.Temporal.Format = "yyyy-MM-dd HH:mm"
	cfg.Common.Prefix = "@"
	assert.Equal(t, "@2024-03-01 10:30", Value(cfg, "2024-03-01T10:30:00Z"))
}

func TestValue_TemporalInvalidString(t *testing.T) {
	cfg := Default(Temporal)
	assert.Equal(t, "", Value(cfg, "not a date"))
	assert.Equal(t, "", Value(cfg, 1700000000))

	cfg.Common.InvalidTemplate = "bad: $value"
	assert.Equal(t, "bad: ", Value(cfg, "not a date"))
}

func TestDispatcher_Location(t *testing.T) {
	loc := time.FixedZone("+07:00", 7*3600)
	d := NewDispatcher(loc)
	cfg := Default(Temporal)
	cfg.Temporal.Format = "yyyy-MM-dd HH:mm xxx"

	assert.Equal(t, "2024-03-02 06:00 +07:00", d.Value(cfg, "2024-03-01T23:00:00Z"))
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, time.UTC, NewDispatcher(nil).Location())
}

func TestDispatcher_Values(t *testing.T) {
	d := NewDispatcher(nil)
	out := d.Values(Default(Numeric), []interface{}{1, nil, 2.5})
	assert.Equal(t, []string{"1.00", "Null", "2.50"}, out)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 1, 5, 14, 7, 9, 123000000, time.UTC)

	tests := []struct {
		pattern  string
		expected string
	}{
		{"MM/dd/yyyy", "01/05/2024"},
		{"d/M/yy", "5/1/24"},
		{"yyyy-MM-dd'T'HH:mm:ss.SSS", "2024-01-05T14:07:09.123"},
		{"MMM d, yyyy", "Jan 5, 2024"},
		{"MMMM do", "January 5th"},
		{"EEE EEEE", "Fri Friday"},
		{"h:mm a", "2:07 PM"},
		{"QQQ", "Q1"},
		{"'It''s' yyyy", "It's 2024"},
		{"XXX", "Z"},
		{"P", "01/05/2024"},
		{"kk:mm", "14:07"},
		{"D", "5"},
		{"yyyy 'Q'Q", "2024 Q1"},
		{"''", "'"},
		{"T", "1704463629123"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(ts, tt.pattern))
		})
	}
}

func TestConfig_UnmarshalJSON_MergesDefaults(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{"type":"numeric","common":{"prefix":"$"},"config":{"mantissa":0}}`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, Numeric, cfg.Type)
	assert.Equal(t, "$", cfg.Common.Prefix)
	assert.Equal(t, "Undefined", cfg.Common.InvalidReplacement.Undefined)
	assert.True(t, cfg.Numeric.ThousandSeparated)
	assert.Equal(t, 0, cfg.Numeric.Mantissa)
}

func TestConfig_UnmarshalJSON_NumericPattern(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"type":"numeric","config":"#,###."}`), &cfg))
	assert.Equal(t, "#,###.", cfg.Numeric.Pattern)
	assert.Equal(t, "1,235", Value(cfg, 1234.6))
}

func TestConfig_UnmarshalJSON_Variants(t *testing.T) {
	var b Config
	require.NoError(t, json.Unmarshal([]byte(`{"type":"boolean","config":{"truthyLabel":"On"}}`), &b))
	assert.Equal(t, "On", b.Boolean.TruthyLabel)
	assert.Equal(t, "False", b.Boolean.FalsyLabel)

	var d Config
	require.NoError(t, json.Unmarshal([]byte(`{"type":"temporal","config":null}`), &d))
	assert.Equal(t, "MM/dd/yyyy", d.Temporal.Format)

	var bad Config
	assert.Error(t, json.Unmarshal([]byte(`{"type":"boolean","config":{"truthyLabel":1}}`), &bad))
}

func TestConfig_MarshalJSON(t *testing.T) {
	cfg := Default(Boolean)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "boolean", raw["type"])
	assert.Equal(t, map[string]interface{}{"truthyLabel": "True", "falsyLabel": "False"}, raw["config"])

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}
