package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the bridge.
type Metrics struct {
	// QueueDepth is the number of events waiting in the webhook queue
	QueueDepth int64 `json:"queue_depth"`

	// OutcomeCounts maps processing outcome to total count
	OutcomeCounts map[string]int64 `json:"outcome_counts"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Processing outcomes recorded by the consumer
const (
	OutcomeProcessed = "processed"
	OutcomeMalformed = "malformed"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// Recorder counts processing outcomes as they happen.
type Recorder interface {
	// Record increments the counter for one outcome
	Record(ctx context.Context, outcome string) error
}

// Collector defines the interface for collecting metrics from the bridge.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetQueueDepth returns the number of events waiting in the queue
	GetQueueDepth(ctx context.Context) (int64, error)

	// GetOutcomeCounts returns processing totals grouped by outcome
	GetOutcomeCounts(ctx context.Context) (map[string]int64, error)
}
