// Package testing provides an in-memory types.Client for testing code built on
// the query builders without a database.
//
// TestDB records every SQL string it receives and answers from expectations:
//
//	db := NewTestDB(types.MySQL).
//	    ExpectQuery("FROM users").
//	    WillReturnRows(NewRowSet("id", "name").AddRow(1, "Alice"))
//
//	rows, err := database.NewImmediateBuilder(db).GetAll(ctx, "users")
//	AssertQueryExecuted(t, db, "SELECT * FROM users")
//
// For integration tests against a real server see testing/containers.
package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	dbtypes "github.com/querychain/querychain/database/types"
)

// TestDB is an in-memory fake implementing types.Client.
//
// TestDB supports two SQL matching modes:
//   - Partial matching (default): Matches if expected SQL is a substring of actual SQL
//   - Strict matching: Requires exact SQL match (enable with StrictSQLMatching())
//
// Queries without a matching expectation fail, unless AllowUnexpected was
// called, in which case they return an empty RowSet.
type TestDB struct {
	vendor          string
	queries         []*QueryExpectation
	queryLog        []QueryCall
	strictMatch     bool
	allowUnexpected bool
	closed          bool
	mu              sync.RWMutex
}

var _ dbtypes.Client = (*TestDB)(nil)

// QueryCall represents a single RawQuery invocation.
type QueryCall struct {
	SQL string
}

// QueryExpectation defines what should happen when a matching query runs.
type QueryExpectation struct {
	db   *TestDB
	sql  string
	rows dbtypes.RowSet
	err  error
}

// NewTestDB creates a fake client reporting vendor as its database type.
func NewTestDB(vendor string) *TestDB {
	return &TestDB{vendor: vendor}
}

// StrictSQLMatching enables exact SQL matching instead of partial substring matching.
// Returns the TestDB for method chaining.
func (db *TestDB) StrictSQLMatching() *TestDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.strictMatch = true
	return db
}

// AllowUnexpected answers queries without an expectation with an empty RowSet.
func (db *TestDB) AllowUnexpected() *TestDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.allowUnexpected = true
	return db
}

// ExpectQuery registers an expectation for queries matching sqlPattern.
// The first matching expectation in registration order wins.
func (db *TestDB) ExpectQuery(sqlPattern string) *QueryExpectation {
	exp := &QueryExpectation{db: db, sql: sqlPattern}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.queries = append(db.queries, exp)
	return exp
}

// WillReturnRows sets the rows returned by the expectation.
func (qe *QueryExpectation) WillReturnRows(rows *RowSet) *TestDB {
	qe.rows = rows.Rows()
	return qe.db
}

// WillReturnError sets the error returned by the expectation.
func (qe *QueryExpectation) WillReturnError(err error) *TestDB {
	qe.err = err
	return qe.db
}

// QueryLog returns all RawQuery calls made to this TestDB.
func (db *TestDB) QueryLog() []QueryCall {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]QueryCall{}, db.queryLog...)
}

// LastQuery returns the most recent SQL string, or "" when none was run.
func (db *TestDB) LastQuery() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if len(db.queryLog) == 0 {
		return ""
	}
	return db.queryLog[len(db.queryLog)-1].SQL
}

// IsClosed reports whether Close was called.
func (db *TestDB) IsClosed() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.closed
}

func (db *TestDB) matchSQL(expected, actual string) bool {
	if db.strictMatch {
		return strings.TrimSpace(expected) == strings.TrimSpace(actual)
	}
	return strings.Contains(actual, expected)
}

func (db *TestDB) findQueryExpectation(actualSQL string) *QueryExpectation {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, exp := range db.queries {
		if db.matchSQL(exp.sql, actualSQL) {
			return exp
		}
	}
	return nil
}

// RawQuery records query and answers it from the first matching expectation.
// Each call returns its own copy of the configured rows.
func (db *TestDB) RawQuery(_ context.Context, query string) (dbtypes.RowSet, error) {
	db.mu.Lock()
	db.queryLog = append(db.queryLog, QueryCall{SQL: query})
	allowUnexpected := db.allowUnexpected
	db.mu.Unlock()

	exp := db.findQueryExpectation(query)
	if exp == nil {
		if allowUnexpected {
			return dbtypes.RowSet{}, nil
		}
		return nil, fmt.Errorf("unexpected query: %s (no matching expectation)", query)
	}

	if exp.err != nil {
		return nil, exp.err
	}

	return copyRows(exp.rows), nil
}

// DatabaseType returns the vendor given to NewTestDB.
func (db *TestDB) DatabaseType() string {
	return db.vendor
}

// Close marks the TestDB closed.
func (db *TestDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	return nil
}

func copyRows(rows dbtypes.RowSet) dbtypes.RowSet {
	out := make(dbtypes.RowSet, len(rows))
	for i, row := range rows {
		cp := make(dbtypes.Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
