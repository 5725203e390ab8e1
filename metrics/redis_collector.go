package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

/* Redis-backed implementation of Collector and Recorder
 * Outcome counters live in one hash so a single HGETALL reads them all:
 *   bridge:events:stats -> {processed, malformed, invalid, failed}
 */

const statsKey = "bridge:events:stats"

type RedisCollector struct {
	client    *redis.Client
	queueName string
}

// NewRedisCollector creates a Redis metrics collector for one queue
func NewRedisCollector(client *redis.Client, queueName string) *RedisCollector {
	return &RedisCollector{
		client:    client,
		queueName: queueName,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	depth, err := c.GetQueueDepth(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting queue depth: %w", err)
	}

	outcomes, err := c.GetOutcomeCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting outcome counts: %w", err)
	}

	return Metrics{
		QueueDepth:    depth,
		OutcomeCounts: outcomes,
		Timestamp:     time.Now(),
	}, nil
}

// GetQueueDepth returns the number of events waiting in the queue
func (c *RedisCollector) GetQueueDepth(ctx context.Context) (int64, error) {
	depth, err := c.client.LLen(ctx, c.queueName).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("reading queue length: %w", err)
	}
	return depth, nil
}

// GetOutcomeCounts returns processing totals grouped by outcome
func (c *RedisCollector) GetOutcomeCounts(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{
		OutcomeProcessed: 0,
		OutcomeMalformed: 0,
		OutcomeInvalid:   0,
		OutcomeFailed:    0,
	}

	data, err := c.client.HGetAll(ctx, statsKey).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("reading outcome counters: %w", err)
	}

	for outcome, raw := range data {
		counts[outcome] = parseInt64(raw)
	}
	return counts, nil
}

// Record increments the counter for one processing outcome
func (c *RedisCollector) Record(ctx context.Context, outcome string) error {
	if err := c.client.HIncrBy(ctx, statsKey, outcome, 1).Err(); err != nil {
		return fmt.Errorf("incrementing %s counter: %w", outcome, err)
	}
	return nil
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
