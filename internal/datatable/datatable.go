// Package datatable shapes element data into display columns and rows.
package datatable

import (
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/models"
)

// FixedLeft pins a column to the left edge
const FixedLeft = "left"

// DataColumns returns the visible columns in order. The first group column
// of the query is fixed to the left.
func DataColumns(columns []models.ColumnConfig, query models.Query) []models.DataColumn {
	var firstGroup string
	if len(query.Group.Columns) > 0 {
		firstGroup = query.Group.Columns[0].Name
	}

	out := make([]models.DataColumn, 0, len(columns))
	for _, c := range columns {
		if !c.Visible {
			continue
		}
		dc := models.DataColumn{
			Key:     c.Name,
			DataKey: c.Name + ".formatValue",
			Title:   c.Title,
			Width:   c.Width,
			Column:  c,
		}
		if firstGroup != "" && c.Name == firstGroup {
			dc.Fixed = FixedLeft
		}
		out = append(out, dc)
	}
	return out
}

// FormatRows maps every raw row to cells keyed by column name. A value is
// matched to its column through the data source column at the same index;
// values without a visible column are skipped.
func FormatRows(ds models.DsDataSource, columns []models.DataColumn, d *format.Dispatcher) []models.TableRow {
	if d == nil {
		d = format.NewDispatcher(nil)
	}

	byIndex := make([]*models.ColumnConfig, len(ds.Cols))
	for i, col := range ds.Cols {
		for j := range columns {
			if columns[j].Column.Name == col.Name {
				byIndex[i] = &columns[j].Column
				break
			}
		}
	}

	rows := make([]models.TableRow, 0, len(ds.Rows))
	for _, raw := range ds.Rows {
		row := make(models.TableRow, len(columns))
		for i, value := range raw {
			if i >= len(byIndex) || byIndex[i] == nil || !byIndex[i].Visible {
				continue
			}
			cfg := byIndex[i]
			row[cfg.Name] = models.TableCell{
				Value:       value,
				FormatValue: d.Value(cfg.Format, value),
				Column:      *cfg,
			}
		}
		rows = append(rows, row)
	}
	return rows
}
