package testing

import (
	"fmt"
	"strings"
	"testing"
)

// AssertQueryExecuted asserts that a query matching the SQL pattern was executed on the TestDB.
// Uses partial matching by default (can be changed with db.StrictSQLMatching()).
//
// Example:
//
//	db := NewTestDB(dbtypes.MySQL)
//	// ... execute test code ...
//	AssertQueryExecuted(t, db, "SELECT * FROM users")
func AssertQueryExecuted(t testing.TB, db *TestDB, sqlPattern string) {
	t.Helper()
	log := db.QueryLog()
	for _, call := range log {
		if db.matchSQL(sqlPattern, call.SQL) {
			return
		}
	}

	t.Errorf("expected query not executed: %q\nActual queries:\n%s",
		sqlPattern, formatQueryLog(log))
}

// AssertQueryNotExecuted asserts that no query matching the SQL pattern was executed on the TestDB.
func AssertQueryNotExecuted(t testing.TB, db *TestDB, sqlPattern string) {
	t.Helper()
	for _, call := range db.QueryLog() {
		if db.matchSQL(sqlPattern, call.SQL) {
			t.Errorf("unexpected query executed: %q\nQuery SQL: %s",
				sqlPattern, call.SQL)
			return
		}
	}
}

// AssertQueryCount asserts that exactly N queries matching the SQL pattern were executed.
func AssertQueryCount(t testing.TB, db *TestDB, sqlPattern string, expected int) {
	t.Helper()
	log := db.QueryLog()
	count := 0
	for _, call := range log {
		if db.matchSQL(sqlPattern, call.SQL) {
			count++
		}
	}

	if count != expected {
		t.Errorf("expected %d queries matching %q, got %d\nActual queries:\n%s",
			expected, sqlPattern, count, formatQueryLog(log))
	}
}

// AssertNoQueries asserts that the TestDB received no query at all.
func AssertNoQueries(t testing.TB, db *TestDB) {
	t.Helper()
	if log := db.QueryLog(); len(log) > 0 {
		t.Errorf("expected no queries, got %d\nActual queries:\n%s", len(log), formatQueryLog(log))
	}
}

func formatQueryLog(log []QueryCall) string {
	if len(log) == 0 {
		return "  (none)"
	}
	var sb strings.Builder
	for i, call := range log {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, call.SQL)
	}
	return sb.String()
}
