package database

import (
	"context"
	"slices"

	"github.com/querychain/querychain/database/clause"
	"github.com/querychain/querychain/database/internal/builder"
	"github.com/querychain/querychain/database/types"
)

// DeferredBuilder keeps the rendered statement until it is run, and can
// combine several statements with UNION:
//
//	b.Where("status", "open", clause.As(clause.ValueString)).BuildQuery("orders")
//	b.AddQueryToUnion()
//	b.Where("status", "open", clause.As(clause.ValueString)).BuildQuery("refunds")
//	b.AddQueryToUnion()
//	b.BuildUnionQuery()
//	rows, err := b.RunQuery(ctx)
//
// It is not safe for concurrent use.
type DeferredBuilder struct {
	client  types.Client
	clauses *clause.Accumulator
	query   string
	union   []string
	err     error
}

// NewDeferredBuilder returns a builder executing through client.
func NewDeferredBuilder(client types.Client) *DeferredBuilder {
	return &DeferredBuilder{client: client, clauses: clause.New()}
}

// Where adds a WHERE predicate. See clause.Accumulator.Where.
func (b *DeferredBuilder) Where(field string, value any, opts ...clause.PredicateOption) *DeferredBuilder {
	b.clauses.Where(field, value, opts...)
	return b
}

// Sort adds an ORDER BY column. See clause.Accumulator.Sort.
func (b *DeferredBuilder) Sort(column string, opts ...clause.SortOption) *DeferredBuilder {
	b.clauses.Sort(column, opts...)
	return b
}

// ClearWhere drops every WHERE predicate.
func (b *DeferredBuilder) ClearWhere() *DeferredBuilder {
	b.clauses.ClearWhere()
	return b
}

// ClearSort drops every ORDER BY column.
func (b *DeferredBuilder) ClearSort() *DeferredBuilder {
	b.clauses.ClearSort()
	return b
}

// BuildQuery renders the SELECT for table and keeps it as the current query,
// replacing any previous one. Clauses are left untouched and nothing runs.
// A rendering failure is reported by the next AddQueryToUnion or RunQuery.
func (b *DeferredBuilder) BuildQuery(table string, opts ...SelectOption) *DeferredBuilder {
	b.query, b.err = renderSelect(b.clauses, table, opts)
	return b
}

// AddQueryToUnion moves the current query into the union set and clears the
// query and both clauses, ready for the next branch.
func (b *DeferredBuilder) AddQueryToUnion() (*DeferredBuilder, error) {
	if b.err != nil {
		return b, b.err
	}
	if b.query == "" {
		return b, ErrEmptyUnionQuery
	}

	b.union = append(b.union, b.query)
	b.query = ""
	b.clauses.Reset()
	return b, nil
}

// BuildUnionQuery joins the union set with UNION into the current query. The
// union set is kept, so later branches extend it.
func (b *DeferredBuilder) BuildUnionQuery() (*DeferredBuilder, error) {
	if len(b.union) == 0 {
		return b, ErrEmptyUnionSet
	}

	b.query = builder.RenderUnion(b.union)
	b.err = nil
	return b, nil
}

// RunQuery executes the current query. The query is kept, so it can be run
// again. Client errors are returned unchanged.
func (b *DeferredBuilder) RunQuery(ctx context.Context) (types.RowSet, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.query == "" {
		return nil, ErrEmptyQuery
	}
	return b.client.RawQuery(ctx, b.query)
}

// GetAll builds the SELECT for table and runs it. The union set is not used.
func (b *DeferredBuilder) GetAll(ctx context.Context, table string, opts ...SelectOption) (types.RowSet, error) {
	return b.BuildQuery(table, opts...).RunQuery(ctx)
}

// GetOne is GetAll with offset 0 and limit 1. It returns nil when no row matched.
func (b *DeferredBuilder) GetOne(ctx context.Context, table string, opts ...SelectOption) (types.Row, error) {
	rows, err := b.GetAll(ctx, table, slices.Concat(opts, firstRow)...)
	if err != nil {
		return nil, err
	}
	return rows.First(), nil
}

// Query returns the current query, or "" when none is built.
func (b *DeferredBuilder) Query() string {
	return b.query
}

// UnionSize returns the number of statements in the union set.
func (b *DeferredBuilder) UnionSize() int {
	return len(b.union)
}

// Client returns the client queries are sent to.
func (b *DeferredBuilder) Client() types.Client {
	return b.client
}

// Close closes the underlying client.
func (b *DeferredBuilder) Close() error {
	return b.client.Close()
}
