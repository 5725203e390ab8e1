package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

/* Event is the envelope produced by the dashboard for every webhook
 * Uses value semantics as it represents data, not behavior
 */

// Kind is the discriminator of the webhook event union
type Kind string

const (
	KindMessageCreated      Kind = "message_created"
	KindConversationUpdated Kind = "conversation_updated"
	KindConversationCreated Kind = "conversation_created"
)

// Valid reports whether the kind is one of the supported event types
func (k Kind) Valid() bool {
	switch k {
	case KindMessageCreated, KindConversationUpdated, KindConversationCreated:
		return true
	}
	return false
}

// Event represents the common webhook envelope
type Event struct {
	Platform       string         `json:"platform"`
	TargetPlatform string         `json:"targetPlatform"`
	SourcePlatform string         `json:"sourcePlatform"`
	Type           Kind           `json:"type"`
	Timestamp      string         `json:"timestamp"`
	Data           map[string]any `json:"data"`
}

// Meta is the pre-computed attachment summary carried by enhanced events
type Meta struct {
	HasFiles  bool     `json:"hasFiles"`
	FileCount int      `json:"fileCount"`
	TotalSize int64    `json:"totalSize"`
	Types     []string `json:"types"`
	Names     []string `json:"names"`
}

// Enhanced is an Event with the optional attachment summary populated
// by the producer. Attachments is nil on plain events.
type Enhanced struct {
	Event
	Attachments *Meta `json:"attachments,omitempty"`
}

// wrapper is the outer shape some producers nest the real payload under
type wrapper struct {
	Event json.RawMessage `json:"event"`
}

// Parse decodes a dequeued payload into an enhanced event.
// A known outer wrapper ({"event": {...}}) is unwrapped transparently.
func Parse(data []byte) (*Enhanced, error) {
	var w wrapper
	if err := json.Unmarshal(data, &w); err == nil && len(w.Event) > 0 {
		data = w.Event
	}

	var evt Enhanced
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("unmarshaling event: %w", err)
	}
	return &evt, nil
}

// ParseTimestamp parses the envelope timestamp.
// Accepts RFC3339 with or without sub-second precision.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
		}
	}
	return t, nil
}

// ExtractConversationID returns the conversation identifier from event data,
// trying "conversationId" then "id". Returns "" when neither is usable.
func ExtractConversationID(data map[string]any) string {
	for _, key := range []string{"conversationId", "id"} {
		switch v := data[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// Files returns the raw attachment objects carried in event data, trying
// "files" then "attachments". Returns nil when the event carries none.
func (e *Event) Files() []map[string]any {
	for _, key := range []string{"files", "attachments"} {
		list, ok := e.Data[key].([]any)
		if !ok {
			continue
		}
		files := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				files = append(files, m)
			}
		}
		return files
	}
	return nil
}
