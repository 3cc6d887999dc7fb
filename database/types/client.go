// Package types contains the database client contract shared by the builders,
// the bundled drivers and the tracking layer.
// It is separate from the main database package to avoid import cycles
// and to make the contract easy to fake in tests.
//
//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import "context"

// Database vendor identifiers shared across the database packages.
type Vendor = string

const (
	MySQL      Vendor = "mysql"
	PostgreSQL Vendor = "postgresql"
)

// Row is one result row keyed by column name. Text columns are returned as
// string, other values as the driver produced them.
type Row map[string]any

// RowSet is an ordered list of result rows.
type RowSet []Row

// First returns the first row, or nil when the set is empty.
func (rs RowSet) First() Row {
	if len(rs) == 0 {
		return nil
	}
	return rs[0]
}

// Client executes raw SQL text. The builders hand their rendered statements
// to a Client and never interpret its results or errors.
type Client interface {
	// RawQuery executes query as-is and returns every row it produced.
	RawQuery(ctx context.Context, query string) (RowSet, error)

	// DatabaseType returns the vendor identifier, e.g. MySQL.
	DatabaseType() string

	// Close releases the underlying connection pool.
	Close() error
}
