// Package mocks provides testify mocks for the querychain client contract.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/querychain/querychain/database/types"
)

// MockClient provides a testify-based mock implementation of types.Client.
//
// Example usage:
//
//	client := &mocks.MockClient{}
//	client.ExpectRawQuery("SELECT * FROM users", types.RowSet{{"id": 1}}, nil)
//
//	rows, err := database.NewImmediateBuilder(client).GetAll(ctx, "users")
//	client.AssertExpectations(t)
type MockClient struct {
	mock.Mock
}

var _ types.Client = (*MockClient)(nil)

// RawQuery implements types.Client
func (m *MockClient) RawQuery(ctx context.Context, query string) (types.RowSet, error) {
	arguments := m.Called(ctx, query)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(types.RowSet), arguments.Error(1)
}

// DatabaseType implements types.Client
func (m *MockClient) DatabaseType() string {
	return m.Called().String(0)
}

// Close implements types.Client
func (m *MockClient) Close() error {
	return m.Called().Error(0)
}

// ExpectRawQuery expects query verbatim, with any context.
func (m *MockClient) ExpectRawQuery(query string, rows types.RowSet, err error) *mock.Call {
	return m.On("RawQuery", mock.Anything, query).Return(rows, err)
}

// ExpectAnyRawQuery answers every query with rows and err.
func (m *MockClient) ExpectAnyRawQuery(rows types.RowSet, err error) *mock.Call {
	return m.On("RawQuery", mock.Anything, mock.AnythingOfType("string")).Return(rows, err)
}

// ExpectDatabaseType sets the vendor reported by DatabaseType.
func (m *MockClient) ExpectDatabaseType(vendor string) *mock.Call {
	return m.On("DatabaseType").Return(vendor)
}

// ExpectClose sets the Close result.
func (m *MockClient) ExpectClose(err error) *mock.Call {
	return m.On("Close").Return(err)
}
