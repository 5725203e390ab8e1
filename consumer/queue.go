package consumer

import (
	"context"
	"time"
)

/* Small, focused queue interface written for the consumer, not for any
 * particular backend. The Redis implementation lives in consumer/redis.
 */

// Queue is one connection to the backing FIFO queue
type Queue interface {
	/* PopWait blocks up to timeout for the next item.
	 * ok is false when the timeout elapsed with nothing to pop.
	 */
	PopWait(ctx context.Context, queue string, timeout time.Duration) (item string, ok bool, err error)

	// Len returns the current queue depth
	Len(ctx context.Context, queue string) (int64, error)

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error

	// Open reports whether the connection is usable
	Open() bool

	Close() error
}
