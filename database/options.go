package database

import (
	"github.com/querychain/querychain/database/clause"
	"github.com/querychain/querychain/database/internal/builder"
)

// SelectOption customizes the column list and paging of a SELECT.
type SelectOption func(*builder.SelectSpec)

// Columns sets the column list, verbatim. The default is "*".
func Columns(columns string) SelectOption {
	return func(s *builder.SelectSpec) { s.Columns = columns }
}

// Offset sets the LIMIT offset. Without an offset no LIMIT clause is rendered.
func Offset(n uint64) SelectOption {
	return func(s *builder.SelectSpec) { s.Offset = &n }
}

// Limit sets the row count. It only takes effect together with Offset, and a
// limit of 0 is omitted.
func Limit(n uint64) SelectOption {
	return func(s *builder.SelectSpec) { s.Limit = &n }
}

// firstRow pins the paging used by GetOne.
var firstRow = []SelectOption{Offset(0), Limit(1)}

func renderSelect(acc *clause.Accumulator, table string, opts []SelectOption) (string, error) {
	spec := builder.SelectSpec{Table: table, Columns: builder.DefaultColumns}
	for _, opt := range opts {
		opt(&spec)
	}
	return builder.RenderSelect(spec, acc.WhereClause(), acc.OrderByClause())
}
