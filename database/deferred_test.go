package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querychain/querychain/database/clause"
	dbtest "github.com/querychain/querychain/database/testing"
	"github.com/querychain/querychain/database/types"
	testconsts "github.com/querychain/querychain/testing"
)

func TestDeferredEndToEnd(t *testing.T) {
	db := dbtest.NewTestDB(types.MySQL).StrictSQLMatching().
		ExpectQuery(endToEndQuery).
		WillReturnRows(dbtest.NewRowSet("id").AddRow(1))

	rows, err := NewDeferredBuilder(db).
		Where("age", 18, clause.Op(">"), clause.Logic(clause.And), clause.As(clause.ValueInt)).
		Where("name", "Bob", clause.Op("="), clause.Logic(clause.And), clause.As(clause.ValueString)).
		Sort("age").
		BuildQuery("users").
		RunQuery(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, []dbtest.QueryCall{{SQL: endToEndQuery}}, db.QueryLog())
}

func TestDeferredBuildQueryDoesNotExecute(t *testing.T) {
	db := newTestDB()
	b := NewDeferredBuilder(db).Where("a", 1).BuildQuery("t", Offset(5), Limit(10))

	assert.Equal(t, "SELECT * FROM t WHERE a = 1 LIMIT 5, 10", b.Query())
	dbtest.AssertNoQueries(t, db)

	// Clauses survive a build.
	b.BuildQuery("u")
	assert.Equal(t, "SELECT * FROM u WHERE a = 1", b.Query())
}

func TestDeferredRunQueryIsRepeatable(t *testing.T) {
	db := newTestDB()
	b := NewDeferredBuilder(db).BuildQuery("t")
	ctx := context.Background()

	_, err := b.RunQuery(ctx)
	require.NoError(t, err)
	_, err = b.RunQuery(ctx)
	require.NoError(t, err)

	dbtest.AssertQueryCount(t, db, "SELECT * FROM t", 2)
	assert.Equal(t, "SELECT * FROM t", b.Query())
}

func TestDeferredEmptyStateErrors(t *testing.T) {
	tests := []struct {
		name    string
		run     func(*DeferredBuilder) error
		want    *StateError
		message string
	}{
		{
			name: "add to union before build",
			run: func(b *DeferredBuilder) error {
				_, err := b.AddQueryToUnion()
				return err
			},
			want:    ErrEmptyUnionQuery,
			message: "cannot add an empty query to union",
		},
		{
			name: "build union with empty set",
			run: func(b *DeferredBuilder) error {
				_, err := b.BuildUnionQuery()
				return err
			},
			want:    ErrEmptyUnionSet,
			message: "cannot build a union query",
		},
		{
			name: "run before build",
			run: func(b *DeferredBuilder) error {
				_, err := b.RunQuery(context.Background())
				return err
			},
			want:    ErrEmptyQuery,
			message: "cannot run an empty query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB()
			err := tt.run(NewDeferredBuilder(db).Where("a", 1))

			require.ErrorIs(t, err, tt.want)
			var stateErr *StateError
			require.True(t, errors.As(err, &stateErr))
			assert.Equal(t, StateErrorCode, stateErr.Code)
			assert.Equal(t, tt.message, err.Error())
			dbtest.AssertNoQueries(t, db)
		})
	}
}

func TestDeferredAddQueryToUnionResetsState(t *testing.T) {
	b := NewDeferredBuilder(newTestDB()).
		Where("status", "open", clause.As(clause.ValueString)).
		Sort("id").
		BuildQuery(testconsts.TestTableOrders)

	_, err := b.AddQueryToUnion()
	require.NoError(t, err)

	assert.Empty(t, b.Query())
	assert.Equal(t, 1, b.UnionSize())

	// Clauses are empty, so the next branch starts clean.
	assert.Equal(t, "SELECT * FROM refunds", b.BuildQuery(testconsts.TestTableRefunds).Query())

	// The persisted query is empty again after a second add.
	_, err = b.AddQueryToUnion()
	require.NoError(t, err)
	_, err = b.RunQuery(context.Background())
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = b.AddQueryToUnion()
	assert.ErrorIs(t, err, ErrEmptyUnionQuery)
	assert.Equal(t, 2, b.UnionSize())
}

func TestDeferredBuildUnionQuery(t *testing.T) {
	db := newTestDB()
	b := NewDeferredBuilder(db)

	_, err := b.Where("a", 1).BuildQuery("t1", Columns("a")).AddQueryToUnion()
	require.NoError(t, err)
	_, err = b.Where("a", 2).Sort("a", clause.Desc()).BuildQuery("t2", Columns("a")).AddQueryToUnion()
	require.NoError(t, err)

	_, err = b.BuildUnionQuery()
	require.NoError(t, err)

	const union = "SELECT a FROM t1 WHERE a = 1 UNION SELECT a FROM t2 WHERE a = 2 ORDER BY a DESC"
	assert.Equal(t, union, b.Query())

	_, err = b.RunQuery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, union, db.LastQuery())

	// The union set is kept: a further branch extends it.
	assert.Equal(t, 2, b.UnionSize())
	_, err = b.BuildQuery("t3", Columns("a")).AddQueryToUnion()
	require.NoError(t, err)
	_, err = b.BuildUnionQuery()
	require.NoError(t, err)
	assert.Equal(t, union+" UNION SELECT a FROM t3", b.Query())
}

func TestDeferredBuildUnionQueryOverwritesLeftover(t *testing.T) {
	b := NewDeferredBuilder(newTestDB())

	_, err := b.BuildQuery("t1").AddQueryToUnion()
	require.NoError(t, err)

	b.BuildQuery("leftover")
	_, err = b.BuildUnionQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t1", b.Query())
}

func TestDeferredGetAllAndGetOne(t *testing.T) {
	db := dbtest.NewTestDB(types.MySQL).
		ExpectQuery("FROM users").
		WillReturnRows(dbtest.NewRowSet("id").AddRow(1).AddRow(2))
	b := NewDeferredBuilder(db).Where("age", 18, clause.Op(">="))
	ctx := context.Background()

	rows, err := b.GetAll(ctx, "users", Offset(10))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "SELECT * FROM users WHERE age >= 18 LIMIT 10", db.LastQuery())

	row, err := b.GetOne(ctx, "users", Columns("id"))
	require.NoError(t, err)
	assert.Equal(t, types.Row{"id": 1}, row)
	assert.Equal(t, "SELECT id FROM users WHERE age >= 18 LIMIT 0, 1", db.LastQuery())

	// GetAll bypasses the union set.
	assert.Zero(t, b.UnionSize())
}

func TestDeferredClientErrorPassthrough(t *testing.T) {
	want := errors.New("server has gone away")
	db := dbtest.NewTestDB(types.MySQL).ExpectQuery("t").WillReturnError(want)
	b := NewDeferredBuilder(db).BuildQuery("t")

	rows, err := b.RunQuery(context.Background())
	assert.Nil(t, rows)
	assert.Same(t, want, err)
	assert.Equal(t, "SELECT * FROM t", b.Query())
}

func TestDeferredClearAndClose(t *testing.T) {
	db := newTestDB()
	b := NewDeferredBuilder(db).Where("a", 1).Sort("a").ClearWhere().ClearSort()

	assert.Equal(t, "SELECT * FROM t", b.BuildQuery("t").Query())
	assert.Same(t, db, b.Client())
	require.NoError(t, b.Close())
	assert.True(t, db.IsClosed())
}
