package database

import (
	"context"
	"slices"

	"github.com/querychain/querychain/database/clause"
	"github.com/querychain/querychain/database/types"
)

// ImmediateBuilder renders a SELECT from its accumulated clauses and runs it
// right away. Clauses persist across calls until cleared.
// It is not safe for concurrent use.
type ImmediateBuilder struct {
	client  types.Client
	clauses *clause.Accumulator
}

// NewImmediateBuilder returns a builder executing through client.
func NewImmediateBuilder(client types.Client) *ImmediateBuilder {
	return &ImmediateBuilder{client: client, clauses: clause.New()}
}

// Where adds a WHERE predicate. See clause.Accumulator.Where.
func (b *ImmediateBuilder) Where(field string, value any, opts ...clause.PredicateOption) *ImmediateBuilder {
	b.clauses.Where(field, value, opts...)
	return b
}

// Sort adds an ORDER BY column. See clause.Accumulator.Sort.
func (b *ImmediateBuilder) Sort(column string, opts ...clause.SortOption) *ImmediateBuilder {
	b.clauses.Sort(column, opts...)
	return b
}

// ClearWhere drops every WHERE predicate.
func (b *ImmediateBuilder) ClearWhere() *ImmediateBuilder {
	b.clauses.ClearWhere()
	return b
}

// ClearSort drops every ORDER BY column.
func (b *ImmediateBuilder) ClearSort() *ImmediateBuilder {
	b.clauses.ClearSort()
	return b
}

// GetAll runs SELECT {columns} FROM {table}{where}{order by}{limit} and
// returns its rows. Client errors are returned unchanged.
func (b *ImmediateBuilder) GetAll(ctx context.Context, table string, opts ...SelectOption) (types.RowSet, error) {
	query, err := renderSelect(b.clauses, table, opts)
	if err != nil {
		return nil, err
	}
	return b.client.RawQuery(ctx, query)
}

// GetOne is GetAll with offset 0 and limit 1. It returns nil when no row matched.
func (b *ImmediateBuilder) GetOne(ctx context.Context, table string, opts ...SelectOption) (types.Row, error) {
	rows, err := b.GetAll(ctx, table, slices.Concat(opts, firstRow)...)
	if err != nil {
		return nil, err
	}
	return rows.First(), nil
}

// Client returns the client queries are sent to.
func (b *ImmediateBuilder) Client() types.Client {
	return b.client
}

// Close closes the underlying client.
func (b *ImmediateBuilder) Close() error {
	return b.client.Close()
}
