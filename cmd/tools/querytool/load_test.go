package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/models"
)

const yamlFilter = `
type: OR
conditions:
  - column: status
    operator: $eq
    value: open
  - type: AND
    conditions:
      - column: qty
        operator: $gt
        value: 3
`

const tomlFilter = `
type = "AND"

[[conditions]]
column = "status"
operator = "$in"
value = ["open", "closed"]
`

const jsonFilter = `{"type":"AND","conditions":[{"column":"day","operator":"$eq","value":["start_today","end_today"]}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDocument_Filters(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		var filter models.FilterGroup
		require.NoError(t, readDocument(writeFile(t, "f.yaml", yamlFilter), &filter))

		assert.Equal(t, models.LogicOr, filter.Type)
		require.Len(t, filter.Conditions, 2)
		assert.False(t, filter.Conditions[0].IsGroup())
		assert.Equal(t, "open", filter.Conditions[0].Condition.Value)
		require.True(t, filter.Conditions[1].IsGroup())
		assert.Equal(t, 3.0, filter.Conditions[1].Group.Conditions[0].Condition.Value)
	})

	t.Run("toml", func(t *testing.T) {
		var filter models.FilterGroup
		require.NoError(t, readDocument(writeFile(t, "f.toml", tomlFilter), &filter))

		require.Len(t, filter.Conditions, 1)
		c := filter.Conditions[0].Condition
		assert.Equal(t, models.OpIn, c.Operator)
		assert.Equal(t, []interface{}{"open", "closed"}, c.Value)
	})

	t.Run("json", func(t *testing.T) {
		var filter models.FilterGroup
		require.NoError(t, readDocument(writeFile(t, "f.json", jsonFilter), &filter))

		require.Len(t, filter.Conditions, 1)
		assert.Equal(t, "day", filter.Conditions[0].Condition.Column)
	})
}

func TestReadDocument_FormatConfig(t *testing.T) {
	var cfg format.Config
	path := writeFile(t, "fmt.yaml", "type: numeric\nconfig:\n  mantissa: 1\n")
	require.NoError(t, readDocument(path, &cfg))

	assert.Equal(t, format.Numeric, cfg.Type)
	assert.Equal(t, 1, cfg.Numeric.Mantissa)
	assert.True(t, cfg.Numeric.ThousandSeparated)
}

func TestReadDocument_Errors(t *testing.T) {
	var filter models.FilterGroup

	err := readDocument(filepath.Join(t.TempDir(), "missing.yaml"), &filter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read from")

	err = readDocument(writeFile(t, "f.xml", "<filter/>"), &filter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")

	err = readDocument(writeFile(t, "f.yaml", "type: [unterminated"), &filter)
	require.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 12.5, parseValue("12.5"))
	assert.Equal(t, true, parseValue("true"))
	assert.Nil(t, parseValue("null"))
	assert.Equal(t, "hello", parseValue("hello"))
	assert.Equal(t, []interface{}{1.0, 2.0}, parseValue("[1,2]"))
	assert.Equal(t, format.Undefined, parseValue("undefined"))
	assert.Equal(t, "undefined", parseValue(`"undefined"`))
}

func TestParseValue_FormatsUndefined(t *testing.T) {
	cfg := format.Default(format.Numeric)
	cfg.Common.InvalidTemplate = "<$value>"
	out := format.NewDispatcher(nil).Values(cfg, []interface{}{parseValue("undefined"), parseValue("null")})
	assert.Equal(t, []string{"<Undefined>", "<Null>"}, out)
}
