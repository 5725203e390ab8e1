package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deskbridge/deskbridge/attachment"
	"github.com/deskbridge/deskbridge/event"
	"github.com/deskbridge/deskbridge/mapping"
)

/* Service is the dashboard-side webhook handler: it resolves the Discord
 * thread for a conversation and pushes the event's content through the
 * attachment pipeline. Implements ticketing.WebhookHandler.
 */

// Transferrer runs the reverse attachment flow into a chat thread
type Transferrer interface {
	DeliverToThread(ctx context.Context, threadID, content string, atts []attachment.Attachment) attachment.TransferResult
}

type Service struct {
	cfg        attachment.Config
	detector   *attachment.Detector
	transfer   Transferrer
	store      mapping.Store
	mappingTTL time.Duration
	logger     *slog.Logger
}

// NewService creates the bridge service with dependency injection
func NewService(cfg attachment.Config, detector *attachment.Detector, transfer Transferrer, store mapping.Store, mappingTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		cfg:        cfg,
		detector:   detector,
		transfer:   transfer,
		store:      store,
		mappingTTL: mappingTTL,
		logger:     logger,
	}
}

// HandleWebhookEvent routes one validated event by kind
func (s *Service) HandleWebhookEvent(ctx context.Context, evt *event.Enhanced) error {
	switch evt.Type {
	case event.KindMessageCreated:
		return s.handleMessageCreated(ctx, evt)
	case event.KindConversationCreated:
		return s.handleConversationCreated(ctx, evt)
	case event.KindConversationUpdated:
		return s.handleConversationUpdated(ctx, evt)
	default:
		// The validator only lets supported kinds through.
		return fmt.Errorf("unroutable event type %q", evt.Type)
	}
}

func (s *Service) handleMessageCreated(ctx context.Context, evt *event.Enhanced) error {
	conversationID := event.ExtractConversationID(evt.Data)

	threadID, err := s.store.ThreadForTicket(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("resolving thread for conversation %s: %w", conversationID, err)
	}
	if threadID == "" {
		s.logger.Warn("no thread mapped for conversation, dropping message",
			"conversationId", conversationID,
		)
		return nil
	}

	content, _ := evt.Data["content"].(string)
	decision := s.detector.ProcessingDecisionFor(evt)
	consistent := s.detector.ValidateConsistency(evt)

	s.logger.Debug("processing decision",
		"conversationId", conversationID,
		"reason", decision.Reason,
		"summary", decision.Summary,
		"consistent", consistent,
	)

	var atts []attachment.Attachment
	switch {
	case decision.ShouldProcess && consistent:
		atts = attachment.NormalizeRecords(evt.Files())
	case decision.HasAttachments:
		// Unsupported, oversized, or inconsistent metadata: the files stay
		// behind but the user learns why.
		content = appendNote(content, s.cfg.Messages.UnsupportedType)
	}

	if content == "" && len(atts) == 0 {
		// The validator accepts attachment-only messages; after filtering
		// there may be nothing left worth a thread post.
		s.logger.Debug("message without deliverable content, skipping",
			"conversationId", conversationID,
		)
		return nil
	}

	result := s.transfer.DeliverToThread(ctx, threadID, content, atts)
	if !result.Success {
		return fmt.Errorf("delivering to thread %s: %s", threadID, strings.Join(result.Errors, "; "))
	}

	s.logger.Info("delivered message to thread",
		"conversationId", conversationID,
		"threadId", threadID,
		"files", result.ProcessedCount,
		"durationMs", result.ProcessingTime.Milliseconds(),
	)
	return nil
}

// handleConversationCreated records the thread mapping when the producer
// includes the originating thread.
func (s *Service) handleConversationCreated(ctx context.Context, evt *event.Enhanced) error {
	conversationID := event.ExtractConversationID(evt.Data)
	threadID, _ := evt.Data["threadId"].(string)
	if threadID == "" {
		s.logger.Debug("conversation created without thread reference",
			"conversationId", conversationID,
		)
		return nil
	}

	m := mapping.Mapping{
		TicketID:  conversationID,
		ThreadID:  threadID,
		CreatedAt: time.Now(),
	}
	if err := s.store.Save(ctx, m, s.mappingTTL); err != nil {
		return fmt.Errorf("saving mapping for conversation %s: %w", conversationID, err)
	}

	s.logger.Info("mapped conversation to thread",
		"conversationId", conversationID,
		"threadId", threadID,
	)
	return nil
}

func (s *Service) handleConversationUpdated(ctx context.Context, evt *event.Enhanced) error {
	conversationID := event.ExtractConversationID(evt.Data)
	status, _ := evt.Data["status"].(string)

	threadID, err := s.store.ThreadForTicket(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("resolving thread for conversation %s: %w", conversationID, err)
	}
	if threadID == "" {
		s.logger.Debug("status change for unmapped conversation",
			"conversationId", conversationID, "status", status,
		)
		return nil
	}

	note := fmt.Sprintf("Ticket status changed to %s.", status)
	result := s.transfer.DeliverToThread(ctx, threadID, note, nil)
	if !result.Success {
		return fmt.Errorf("notifying thread %s: %s", threadID, strings.Join(result.Errors, "; "))
	}
	return nil
}

func appendNote(content, note string) string {
	if content == "" {
		return note
	}
	return content + "\n\n" + note
}
