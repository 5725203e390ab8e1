package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskbridge/deskbridge/consumer"
)

/* Redis list implementation of consumer.Queue
 * The producer LPUSHes serialized events; BRPOP keeps consumption FIFO.
 */

type Queue struct {
	client *redis.Client
	closed atomic.Bool
}

var _ consumer.Queue = (*Queue)(nil)

// NewQueue creates one Redis connection for queue operations.
// The consumer holds two of these so a long-blocking pop never starves
// diagnostic queries.
func NewQueue(addr, password string, db int) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Queue{client: client}, nil
}

// PopWait blocks up to timeout for the next queued item
func (q *Queue) PopWait(ctx context.Context, queue string, timeout time.Duration) (string, bool, error) {
	res, err := q.client.BRPop(ctx, timeout, queue).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("popping from %s: %w", queue, err)
	}
	// BRPop returns [key, value]
	if len(res) != 2 {
		return "", false, fmt.Errorf("unexpected BRPOP reply length %d", len(res))
	}
	return res[1], true, nil
}

// Len returns the queue depth
func (q *Queue) Len(ctx context.Context, queue string) (int64, error) {
	n, err := q.client.LLen(ctx, queue).Result()
	if err != nil {
		return 0, fmt.Errorf("reading length of %s: %w", queue, err)
	}
	return n, nil
}

// Ping verifies the connection
func (q *Queue) Ping(ctx context.Context) error {
	if err := q.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging Redis: %w", err)
	}
	return nil
}

// Open reports whether Close has not been called
func (q *Queue) Open() bool {
	return !q.closed.Load()
}

// Close closes the Redis connection; safe to call multiple times
func (q *Queue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	return q.client.Close()
}
