// Package builder assembles the SELECT and UNION statements rendered by the
// database builders. SELECT statements are assembled with squirrel using the
// question-mark placeholder format, so clause text passes through unchanged.
package builder

import (
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
)

// DefaultColumns is the column list used when none is given.
const DefaultColumns = "*"

// unionSeparator joins the branches of a UNION statement.
const unionSeparator = " UNION "

// SelectSpec describes the table, column list and paging of a SELECT.
// A nil Offset means no LIMIT clause is rendered at all, even when Limit is set.
type SelectSpec struct {
	Table   string
	Columns string
	Offset  *uint64
	Limit   *uint64
}

// RenderLimit renders the MySQL-style paging clause:
//
//	offset only        -> " LIMIT {offset}"
//	offset and limit>0 -> " LIMIT {offset}, {limit}"
//	no offset          -> ""
func RenderLimit(offset, limit *uint64) string {
	if offset == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(" LIMIT ")
	sb.WriteString(strconv.FormatUint(*offset, 10))
	if limit != nil && *limit > 0 {
		sb.WriteString(", ")
		sb.WriteString(strconv.FormatUint(*limit, 10))
	}
	return sb.String()
}

// RenderSelect renders SELECT {columns} FROM {table}{where}{orderBy}{limit}.
// where and orderBy are clause texts carrying their own leading space.
func RenderSelect(spec SelectSpec, where, orderBy string) (string, error) {
	columns := spec.Columns
	if columns == "" {
		columns = DefaultColumns
	}

	query := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Question).
		Select(columns).
		From(spec.Table)

	// squirrel separates the suffix from FROM with a single space itself.
	if tail := strings.TrimPrefix(where+orderBy+RenderLimit(spec.Offset, spec.Limit), " "); tail != "" {
		query = query.Suffix(tail)
	}

	sql, _, err := query.ToSql()
	if err != nil {
		return "", err
	}
	return sql, nil
}

// RenderUnion joins queries with UNION in order.
func RenderUnion(queries []string) string {
	return strings.Join(queries, unionSeparator)
}
