// Package rowset materializes query results into types.RowSet values.
package rowset

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/querychain/querychain/database/types"
)

// Query runs query on db without arguments and collects its rows.
func Query(ctx context.Context, db sqlx.QueryerContext, query string) (types.RowSet, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return Collect(rows)
}

// Collect reads every remaining row from rows and closes it. An empty result
// is a non-nil, zero-length RowSet.
func Collect(rows *sqlx.Rows) (types.RowSet, error) {
	defer rows.Close()

	result := types.RowSet{}
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, normalize(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// normalize converts byte slices to strings. The MySQL driver returns most
// column types as []byte over the text protocol.
func normalize(row map[string]any) types.Row {
	out := make(types.Row, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			out[k] = string(b)
			continue
		}
		out[k] = v
	}
	return out
}
