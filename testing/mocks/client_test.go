package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querychain/querychain/database/types"
)

func TestMockClient(t *testing.T) {
	client := &MockClient{}
	client.ExpectRawQuery("SELECT * FROM users", types.RowSet{{"id": 1}}, nil).Once()
	client.ExpectDatabaseType(types.PostgreSQL)
	client.ExpectClose(errors.New("already closed"))

	rows, err := client.RawQuery(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, types.RowSet{{"id": 1}}, rows)
	assert.Equal(t, types.PostgreSQL, client.DatabaseType())
	assert.EqualError(t, client.Close(), "already closed")

	client.AssertExpectations(t)
}

func TestMockClientError(t *testing.T) {
	client := &MockClient{}
	want := types.NewQueryError("Unknown column 'x'", 1054, nil)
	client.ExpectAnyRawQuery(nil, want)

	rows, err := client.RawQuery(context.Background(), "SELECT x FROM t")
	assert.Nil(t, rows)
	assert.Same(t, want, err)
}
