package testing

import (
	"fmt"

	dbtypes "github.com/querychain/querychain/database/types"
)

// RowSet builds canned query results for TestDB.
//
// Usage example:
//
//	rows := NewRowSet("id", "name").
//	    AddRow(1, "Alice").
//	    AddRow(2, "Bob")
type RowSet struct {
	columns []string
	rows    [][]any
}

// NewRowSet creates an empty RowSet with the given column names.
func NewRowSet(columns ...string) *RowSet {
	return &RowSet{columns: columns}
}

// AddRow appends one row. It panics when the value count does not match the
// column count, since that is always a mistake in the test itself.
func (rs *RowSet) AddRow(values ...any) *RowSet {
	if len(values) != len(rs.columns) {
		panic(fmt.Sprintf("AddRow: got %d values for %d columns", len(values), len(rs.columns)))
	}
	rs.rows = append(rs.rows, values)
	return rs
}

// AddRows adds count rows produced by generator.
//
//	NewRowSet("id").AddRows(100, func(i int) []any { return []any{i} })
func (rs *RowSet) AddRows(count int, generator func(i int) []any) *RowSet {
	for i := range count {
		rs.AddRow(generator(i)...)
	}
	return rs
}

// RowCount returns the number of rows.
func (rs *RowSet) RowCount() int {
	return len(rs.rows)
}

// Columns returns the column names.
func (rs *RowSet) Columns() []string {
	return append([]string{}, rs.columns...)
}

// Rows converts the builder into a types.RowSet. A nil RowSet converts to an
// empty, non-nil result.
func (rs *RowSet) Rows() dbtypes.RowSet {
	out := dbtypes.RowSet{}
	if rs == nil {
		return out
	}
	for _, values := range rs.rows {
		row := make(dbtypes.Row, len(rs.columns))
		for i, col := range rs.columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out
}
