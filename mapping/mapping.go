package mapping

import (
	"context"
	"time"
)

/* Thread-ticket mapping: the bidirectional association between a Discord
 * thread and a dashboard conversation. The bridge only needs get/set with
 * TTL; the backing store is opaque to everything above this interface.
 */

// Mapping associates one ticket with one thread
type Mapping struct {
	TicketID  string
	ThreadID  string
	CreatedAt time.Time
}

// Store persists thread-ticket associations, indexed both ways.
// Lookups return "" without error when no association exists.
type Store interface {
	TicketForThread(ctx context.Context, threadID string) (string, error)
	ThreadForTicket(ctx context.Context, ticketID string) (string, error)
	Save(ctx context.Context, m Mapping, ttl time.Duration) error
	Close(ctx context.Context) error
}
