package models

// DsColumn describes a column returned by a data source
type DsColumn struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Alias string `json:"alias"`
}

// DsColumns is the columns() response
type DsColumns struct {
	Columns []DsColumn `json:"columns"`
}

// DsDataSource is the exec() response. Rows are positional, matching Cols.
type DsDataSource struct {
	Cols []DsColumn      `json:"cols"`
	Rows [][]interface{} `json:"rows"`
}

// DsCount is the count() response
type DsCount struct {
	Count int64 `json:"count"`
}

// EmptyDataSource returns an exec result with no columns and no rows
func EmptyDataSource() DsDataSource {
	return DsDataSource{Cols: []DsColumn{}, Rows: [][]interface{}{}}
}

// ColumnIndex returns the position of the named column, or -1
func (d DsDataSource) ColumnIndex(name string) int {
	for i, c := range d.Cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
