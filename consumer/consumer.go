package consumer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deskbridge/deskbridge/event"
	"github.com/deskbridge/deskbridge/metrics"
	"github.com/deskbridge/deskbridge/ticketing"
)

/* Consumer is the long-lived polling worker over the dashboard's webhook
 * queue. Single in-flight pop, cooperative loop: the next poll is
 * scheduled only after the current one fully completes.
 */

// State is the consumer lifecycle phase
type State int

const (
	Stopped State = iota + 1
	Connecting
	Running
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Connecting:
		return "connecting"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Status is a synchronous snapshot of the consumer
type Status struct {
	State        string `json:"state"`
	Running      bool   `json:"running"`
	PopConnected bool   `json:"pop_connected"`
	AuxConnected bool   `json:"aux_connected"`
}

// Health classifications from an active check
const (
	Healthy   = "healthy"
	Degraded  = "degraded"
	Unhealthy = "unhealthy"
)

// Health is the result of an active health check
type Health struct {
	State        string `json:"state"`
	Polling      bool   `json:"polling"`
	PopConnected bool   `json:"pop_connected"`
	AuxConnected bool   `json:"aux_connected"`
}

const (
	defaultPollInterval     = 2 * time.Second
	defaultPopTimeout       = 1 * time.Second
	defaultDepthLogInterval = 3 * time.Minute
	previewLimit            = 200
)

// Options configures a Consumer
type Options struct {
	QueueName        string
	PollInterval     time.Duration
	PopTimeout       time.Duration
	DepthLogInterval time.Duration
}

type Consumer struct {
	opts      Options
	pop       Queue
	aux       Queue
	validator *event.Validator
	handler   ticketing.WebhookHandler
	recorder  metrics.Recorder
	logger    *slog.Logger

	mu           sync.Mutex
	state        State
	cancel       context.CancelFunc
	done         chan struct{}
	lastDepthLog time.Time
}

// New creates a consumer with dependency injection. pop and aux are two
// independent connections to the same queue; a nil recorder disables
// outcome counters.
func New(opts Options, pop, aux Queue, validator *event.Validator, handler ticketing.WebhookHandler, recorder metrics.Recorder, logger *slog.Logger) *Consumer {
	if opts.PollInterval == 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PopTimeout == 0 {
		opts.PopTimeout = defaultPopTimeout
	}
	if opts.DepthLogInterval == 0 {
		opts.DepthLogInterval = defaultDepthLogInterval
	}
	return &Consumer{
		opts:      opts,
		pop:       pop,
		aux:       aux,
		validator: validator,
		handler:   handler,
		recorder:  recorder,
		logger:    logger,
		state:     Stopped,
	}
}

// Start begins the poll loop. Idempotent: a second call warns and no-ops.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Stopped {
		c.mu.Unlock()
		c.logger.Warn("consumer already started", "state", c.state.String())
		return nil
	}
	c.state = Connecting

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = Running
	c.mu.Unlock()

	c.logger.Info("consumer started",
		"queue", c.opts.QueueName,
		"pollInterval", c.opts.PollInterval,
	)

	go c.run(loopCtx)
	return nil
}

// Stop tears the consumer down: flips the state, cancels the pending
// poll, and closes both connections. Safe to call multiple times.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if c.state == Stopped {
		c.mu.Unlock()
		return nil
	}
	c.state = Stopped
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	if err := c.pop.Close(); err != nil {
		c.logger.Warn("closing pop connection", "error", err)
	}
	if err := c.aux.Close(); err != nil {
		c.logger.Warn("closing aux connection", "error", err)
	}

	c.logger.Info("consumer stopped", "queue", c.opts.QueueName)
	return nil
}

// Status returns a synchronous snapshot without touching the network
func (c *Consumer) Status() Status {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	return Status{
		State:        state.String(),
		Running:      state == Running,
		PopConnected: c.pop.Open(),
		AuxConnected: c.aux.Open(),
	}
}

// HealthCheck actively pings both connections and classifies overall
// health: both up and polling is healthy, one up and polling is degraded,
// anything else is unhealthy.
func (c *Consumer) HealthCheck(ctx context.Context) Health {
	h := Health{
		Polling:      c.Status().Running,
		PopConnected: c.pop.Open() && c.pop.Ping(ctx) == nil,
		AuxConnected: c.aux.Open() && c.aux.Ping(ctx) == nil,
	}

	switch {
	case h.Polling && h.PopConnected && h.AuxConnected:
		h.State = Healthy
	case h.Polling && (h.PopConnected || h.AuxConnected):
		h.State = Degraded
	default:
		h.State = Unhealthy
	}
	return h
}

// run is the poll loop. Exactly one pop is in flight at a time; an item
// is processed immediately and the loop re-enters without waiting out the
// rest of the poll interval.
func (c *Consumer) run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.maybeLogDepth(ctx)

		item, ok, err := c.pop.PopWait(ctx, c.opts.QueueName, c.opts.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("queue pop failed", "queue", c.opts.QueueName, "error", err)
			c.sleep(ctx, c.opts.PollInterval)
			continue
		}
		if ok {
			c.process(ctx, item)
			continue
		}

		c.sleep(ctx, c.opts.PollInterval)
	}
}

// process runs one dequeued item through parse, validate, dispatch.
// Failures drop the item; delivery is at-most-once from here on.
func (c *Consumer) process(ctx context.Context, item string) {
	processingID := uuid.New().String()

	evt, err := event.Parse([]byte(item))
	if err != nil {
		c.logger.Error("dropping unparseable queue item",
			"processingId", processingID,
			"preview", truncate(item, previewLimit),
			"error", err,
		)
		c.record(ctx, metrics.OutcomeMalformed)
		return
	}

	if !c.validator.Validate(evt) {
		c.logger.Debug("dropping invalid event",
			"processingId", processingID,
			"preview", truncate(item, previewLimit),
		)
		c.record(ctx, metrics.OutcomeInvalid)
		return
	}

	if err := c.dispatch(ctx, evt); err != nil {
		// Second, top-level log; dispatch already logged with context.
		c.logger.Error("event processing failed",
			"processingId", processingID,
			"error", err,
		)
		c.record(ctx, metrics.OutcomeFailed)
		return
	}
	c.record(ctx, metrics.OutcomeProcessed)
}

// dispatch hands the event to the webhook handler. A handler error is
// logged here with full event context, then returned so the loop can log
// once more at the top level. The loop itself never dies.
func (c *Consumer) dispatch(ctx context.Context, evt *event.Enhanced) error {
	err := c.handler.HandleWebhookEvent(ctx, evt)
	if err != nil {
		c.logger.Error("webhook handler failed",
			"type", evt.Type,
			"conversationId", event.ExtractConversationID(evt.Data),
			"sourcePlatform", evt.SourcePlatform,
			"error", err,
		)
	}
	return err
}

// maybeLogDepth emits queue-depth diagnostics at a coarse interval so an
// idle queue does not spam the logs every poll.
func (c *Consumer) maybeLogDepth(ctx context.Context) {
	c.mu.Lock()
	due := time.Since(c.lastDepthLog) >= c.opts.DepthLogInterval
	if due {
		c.lastDepthLog = time.Now()
	}
	c.mu.Unlock()
	if !due {
		return
	}

	depth, err := c.aux.Len(ctx, c.opts.QueueName)
	if err != nil {
		c.logger.Warn("reading queue depth", "queue", c.opts.QueueName, "error", err)
		return
	}
	c.logger.Info("queue depth", "queue", c.opts.QueueName, "depth", depth)
}

func (c *Consumer) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (c *Consumer) record(ctx context.Context, outcome string) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, outcome); err != nil {
		c.logger.Debug("recording outcome", "outcome", outcome, "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
