package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryStatsConcurrentRecord(t *testing.T) {
	ctx := WithQueryStats(context.Background())
	stats := QueryStatsFrom(ctx)
	require.NotNil(t, stats)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%5 == 0 {
				err = errors.New("boom")
			}
			stats.Record(100*time.Nanosecond, 3, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), stats.Queries())
	assert.Equal(t, int64(2), stats.Failures())
	assert.Equal(t, int64(24), stats.Rows())
	assert.Equal(t, time.Microsecond, stats.Elapsed())
}

func TestQueryStatsAbsent(t *testing.T) {
	stats := QueryStatsFrom(context.Background())
	assert.Nil(t, stats)

	// nil receivers are no-ops
	stats.Record(time.Second, 1, nil)
	assert.Zero(t, stats.Queries())
	assert.Zero(t, stats.Failures())
	assert.Zero(t, stats.Rows())
	assert.Zero(t, stats.Elapsed())

	//nolint:staticcheck // nil context is tolerated
	assert.Nil(t, QueryStatsFrom(nil))
}
