//go:build integration

package metrics_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/deskbridge/deskbridge/metrics"
)

const testQueueName = "bridge:webhooks:test"

func setupCollector(t *testing.T, ctx context.Context) (*metrics.RedisCollector, *goredis.Client, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx,
		"redis:7-alpine",
		testcontainersredis.WithSnapshotting(10, 1),
		testcontainersredis.WithLogLevel(testcontainersredis.LogLevelVerbose),
	)
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")
	if len(addr) > 8 && addr[:8] == "redis://" {
		addr = addr[8:]
	}

	time.Sleep(1 * time.Second)

	client := goredis.NewClient(&goredis.Options{Addr: addr})

	cleanup := func() {
		client.Close()
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return metrics.NewRedisCollector(client, testQueueName), client, cleanup
}

func TestRedisCollector_Integration(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh instance reports zeroes for every outcome", func(t *testing.T) {
		collector, _, cleanup := setupCollector(t, ctx)
		defer cleanup()

		m, err := collector.Collect(ctx)
		require.NoError(t, err)

		assert.Zero(t, m.QueueDepth)
		assert.Equal(t, int64(0), m.OutcomeCounts[metrics.OutcomeProcessed])
		assert.Equal(t, int64(0), m.OutcomeCounts[metrics.OutcomeMalformed])
		assert.Equal(t, int64(0), m.OutcomeCounts[metrics.OutcomeInvalid])
		assert.Equal(t, int64(0), m.OutcomeCounts[metrics.OutcomeFailed])
		assert.WithinDuration(t, time.Now(), m.Timestamp, 5*time.Second)
	})

	t.Run("recorded outcomes accumulate", func(t *testing.T) {
		collector, _, cleanup := setupCollector(t, ctx)
		defer cleanup()

		for i := 0; i < 3; i++ {
			require.NoError(t, collector.Record(ctx, metrics.OutcomeProcessed))
		}
		require.NoError(t, collector.Record(ctx, metrics.OutcomeFailed))

		counts, err := collector.GetOutcomeCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts[metrics.OutcomeProcessed])
		assert.Equal(t, int64(1), counts[metrics.OutcomeFailed])
		assert.Equal(t, int64(0), counts[metrics.OutcomeInvalid])
	})

	t.Run("queue depth tracks the list length", func(t *testing.T) {
		collector, client, cleanup := setupCollector(t, ctx)
		defer cleanup()

		for i := 0; i < 4; i++ {
			require.NoError(t, client.LPush(ctx, testQueueName, `{}`).Err())
		}

		depth, err := collector.GetQueueDepth(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), depth)
	})
}
