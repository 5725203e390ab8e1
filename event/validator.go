package event

import (
	"log/slog"
	"strings"
)

/* Validator gates malformed and unsupported events before they reach
 * business logic. Rejections are logged, never returned as errors:
 * bad input is expected noise at this layer.
 */
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a validator with dependency injection
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate reports whether the event is well formed and of a supported kind.
// Structural rejections log at warn level; unsupported kinds log at debug
// level because upstream emits types this bridge never handles.
func (v *Validator) Validate(evt *Enhanced) bool {
	if evt == nil {
		v.logger.Warn("rejecting event: not an object")
		return false
	}

	envelope := map[string]string{
		"platform":       evt.Platform,
		"targetPlatform": evt.TargetPlatform,
		"sourcePlatform": evt.SourcePlatform,
		"type":           string(evt.Type),
		"timestamp":      evt.Timestamp,
	}
	for field, value := range envelope {
		if strings.TrimSpace(value) == "" {
			v.logger.Warn("rejecting event: missing envelope field", "field", field)
			return false
		}
	}

	if _, err := ParseTimestamp(evt.Timestamp); err != nil {
		v.logger.Warn("rejecting event: invalid timestamp", "timestamp", evt.Timestamp)
		return false
	}

	if evt.Data == nil {
		v.logger.Warn("rejecting event: missing data object", "type", evt.Type)
		return false
	}

	if !evt.Type.Valid() {
		v.logger.Debug("skipping unsupported event type", "type", evt.Type)
		return false
	}

	conversationID := ExtractConversationID(evt.Data)

	switch evt.Type {
	case KindMessageCreated:
		if conversationID == "" {
			v.logger.Warn("rejecting message_created: no conversation identifier")
			return false
		}
		if content, _ := evt.Data["content"].(string); content == "" {
			// Attachment-only messages are valid; note it for traceability.
			v.logger.Debug("message_created without text content", "conversationId", conversationID)
		}
		return true
	case KindConversationUpdated:
		if conversationID == "" {
			v.logger.Warn("rejecting conversation_updated: no conversation identifier")
			return false
		}
		if status, _ := evt.Data["status"].(string); status == "" {
			v.logger.Warn("rejecting conversation_updated: no status field", "conversationId", conversationID)
			return false
		}
		return true
	case KindConversationCreated:
		if conversationID == "" {
			v.logger.Warn("rejecting conversation_created: no conversation identifier")
			return false
		}
		return true
	}

	// Reaching here means the supported-kind list and the per-type rules
	// above drifted apart. That is a bug on our side, not bad input.
	v.logger.Warn("event passed generic validation but hit no type handler",
		"type", evt.Type,
	)
	return false
}
