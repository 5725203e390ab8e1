package ticketing

import (
	"context"

	"github.com/deskbridge/deskbridge/event"
)

/* Contracts the webhook consumer depends on. The consumer never knows
 * what handling an event means; it only dispatches validated events.
 */

// WebhookHandler processes one validated dashboard webhook event
type WebhookHandler interface {
	HandleWebhookEvent(ctx context.Context, evt *event.Enhanced) error
}
