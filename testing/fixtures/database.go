// Package fixtures builds pre-configured client mocks for common test scenarios.
package fixtures

import (
	"database/sql"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/querychain/querychain/database/types"
	"github.com/querychain/querychain/testing/mocks"
)

// NewHealthyClient returns a MySQL mock answering every query with an empty
// RowSet and closing cleanly.
func NewHealthyClient() *mocks.MockClient {
	client := &mocks.MockClient{}
	client.ExpectDatabaseType(types.MySQL).Maybe()
	client.ExpectAnyRawQuery(types.RowSet{}, nil).Maybe()
	client.ExpectClose(nil).Maybe()
	return client
}

// NewFailingClient returns a mock failing every query with err, or
// sql.ErrConnDone when err is nil.
func NewFailingClient(err error) *mocks.MockClient {
	if err == nil {
		err = sql.ErrConnDone
	}

	client := &mocks.MockClient{}
	client.ExpectDatabaseType(types.MySQL).Maybe()
	client.ExpectAnyRawQuery(nil, err).Maybe()
	client.ExpectClose(nil).Maybe()
	return client
}

// NewClientWithData returns a mock answering queries from data. Keys are SQL
// fragments matched as substrings; queries matching no key return an empty
// RowSet.
//
// Example:
//
//	client := fixtures.NewClientWithData(map[string]types.RowSet{
//	    "FROM users": {{"id": 1, "name": "Alice"}},
//	})
func NewClientWithData(data map[string]types.RowSet) *mocks.MockClient {
	client := &mocks.MockClient{}
	client.ExpectDatabaseType(types.MySQL).Maybe()
	client.ExpectClose(nil).Maybe()

	for fragment, rows := range data {
		client.On("RawQuery", mock.Anything, mock.MatchedBy(func(query string) bool {
			return strings.Contains(query, fragment)
		})).Return(rows, nil).Maybe()
	}
	client.ExpectAnyRawQuery(types.RowSet{}, nil).Maybe()

	return client
}
