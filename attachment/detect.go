package attachment

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/deskbridge/deskbridge/event"
)

/* Detector is the central policy for whether an event's attachments get
 * touched, and why. Two parallel APIs: metadata-based predicates over the
 * producer's pre-computed summary (fast path) and collection-based
 * validation over live attachment records.
 */

// Routing pair this bridge processes. Events for any other pair are noise.
const (
	SourceDashboard = "dashboard"
	TargetDiscord   = "discord"
)

// Decision reasons, in priority order
const (
	ReasonNotRoutable   = "Not a dashboard-to-discord event"
	ReasonNoAttachments = "No attachments"
	ReasonOversized     = "Files too large"
	ReasonUnsupported   = "Unsupported file types"
	ReasonReady         = "Ready to process supported images"
	ReasonUnknown       = "Unknown attachment state"
)

// Decision is the immutable verdict on one event's attachments
type Decision struct {
	ShouldProcess      bool
	HasAttachments     bool
	HasImages          bool
	HasSupportedImages bool
	HasUnsupported     bool
	IsOversized        bool
	Summary            string
	Reason             string
}

type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a detector with dependency injection
func NewDetector(cfg Config, logger *slog.Logger) *Detector {
	return &Detector{cfg: cfg, logger: logger}
}

// ShouldProcessEvent reports whether the event belongs to the one routing
// pair this bridge handles.
func (d *Detector) ShouldProcessEvent(evt *event.Enhanced) bool {
	return evt.SourcePlatform == SourceDashboard && evt.TargetPlatform == TargetDiscord
}

// HasAttachments reports whether a routable event declares any files
func (d *Detector) HasAttachments(evt *event.Enhanced) bool {
	return d.ShouldProcessEvent(evt) && evt.Attachments != nil && evt.Attachments.HasFiles
}

// HasImageAttachments reports whether at least one declared type is an image
func (d *Detector) HasImageAttachments(evt *event.Enhanced) bool {
	if !d.HasAttachments(evt) {
		return false
	}
	for _, t := range evt.Attachments.Types {
		if strings.HasPrefix(NormalizeContentType(t), "image/") {
			return true
		}
	}
	return false
}

// HasSupportedImages reports whether at least one declared type normalizes
// into the supported set.
func (d *Detector) HasSupportedImages(evt *event.Enhanced) bool {
	if !d.HasImageAttachments(evt) {
		return false
	}
	for _, t := range evt.Attachments.Types {
		if IsSupportedType(t) {
			return true
		}
	}
	return false
}

// HasUnsupportedAttachments reports whether the event carries attachments
// but none of them are usable images. A PDF-only event and an event full of
// wrong-format images both answer true; scope here is images-only, so both
// end in the same user-facing rejection.
func (d *Detector) HasUnsupportedAttachments(evt *event.Enhanced) bool {
	return d.HasAttachments(evt) && !d.HasSupportedImages(evt)
}

// IsOversized reports whether any individual file in the raw file list
// exceeds maxBytes. The check is per file, never aggregate.
func (d *Detector) IsOversized(evt *event.Enhanced, maxBytes int64) bool {
	for _, att := range NormalizeRecords(evt.Files()) {
		if att.Size > maxBytes {
			return true
		}
	}
	return false
}

// ValidateConsistency cross-checks the declared file count against the raw
// file list. A mismatch means upstream metadata drifted; it is logged with
// full context and disables processing rather than being trusted.
func (d *Detector) ValidateConsistency(evt *event.Enhanced) bool {
	if evt.Attachments == nil {
		return true
	}
	actual := len(evt.Files())
	if evt.Attachments.FileCount == actual {
		return true
	}
	d.logger.Warn("attachment metadata inconsistent with raw file list",
		"declaredCount", evt.Attachments.FileCount,
		"actualCount", actual,
		"sourcePlatform", evt.SourcePlatform,
		"targetPlatform", evt.TargetPlatform,
		"conversationId", event.ExtractConversationID(evt.Data),
	)
	return false
}

// ProcessingDecisionFor evaluates the predicates in strict priority order
// and returns the first matching verdict. Size and type rejection take
// precedence over readiness; that ordering is the core business rule.
func (d *Detector) ProcessingDecisionFor(evt *event.Enhanced) Decision {
	return d.decide(evt, d.cfg.MaxFileSize)
}

func (d *Detector) decide(evt *event.Enhanced, maxBytes int64) Decision {
	dec := Decision{
		HasAttachments:     d.HasAttachments(evt),
		HasImages:          d.HasImageAttachments(evt),
		HasSupportedImages: d.HasSupportedImages(evt),
		HasUnsupported:     d.HasUnsupportedAttachments(evt),
		IsOversized:        d.IsOversized(evt, maxBytes),
		Summary:            summarize(evt),
	}

	switch {
	case !d.ShouldProcessEvent(evt):
		dec.Reason = ReasonNotRoutable
	case !dec.HasAttachments:
		dec.Reason = ReasonNoAttachments
	case dec.IsOversized:
		dec.Reason = ReasonOversized
	case dec.HasUnsupported:
		dec.Reason = ReasonUnsupported
	case dec.HasSupportedImages:
		dec.ShouldProcess = true
		dec.Reason = ReasonReady
	default:
		dec.Reason = ReasonUnknown
	}
	return dec
}

func summarize(evt *event.Enhanced) string {
	meta := evt.Attachments
	if meta == nil || !meta.HasFiles {
		return "no attachments"
	}
	imageTypes := 0
	for _, t := range meta.Types {
		if strings.HasPrefix(NormalizeContentType(t), "image/") {
			imageTypes++
		}
	}
	return fmt.Sprintf("%d file(s), %d bytes total, %d image type(s)",
		meta.FileCount, meta.TotalSize, imageTypes)
}

/* Collection-based validation, used when processing a live attachment
 * collection rather than producer metadata.
 */

// ValidationResult is the verdict on one attachment
type ValidationResult struct {
	Valid    bool
	FileInfo Attachment
	Err      string
}

// Invalid pairs a rejected attachment with its reason
type Invalid struct {
	Attachment Attachment
	Err        string
}

// CollectionResult partitions a collection into usable and rejected entries
type CollectionResult struct {
	Valid          []Attachment
	Invalid        []Invalid
	TotalSize      int64
	OversizedCount int
}

// FilterSupportedImages keeps only attachments with a supported image type
// within the per-file size limit. Each rejection is logged individually
// with its specific reason.
func (d *Detector) FilterSupportedImages(atts []Attachment) []Attachment {
	var supported []Attachment
	for _, att := range atts {
		switch {
		case att.ContentType == "":
			d.logger.Debug("skipping attachment without content type", "name", att.Name)
		case att.Size > d.cfg.MaxFileSize:
			d.logger.Debug("skipping attachment over size limit",
				"name", att.Name, "size", att.Size, "limit", d.cfg.MaxFileSize)
		case !IsSupportedType(att.ContentType):
			d.logger.Debug("skipping attachment with unsupported type",
				"name", att.Name, "contentType", att.ContentType)
		default:
			supported = append(supported, att)
		}
	}
	return supported
}

// ValidateAttachments validates a collection. Exceeding the file-count limit
// marks every attachment invalid (all-or-nothing, no partial trim); below
// the limit each attachment is validated individually and the total size is
// computed from valid entries only.
func (d *Detector) ValidateAttachments(atts []Attachment) CollectionResult {
	var result CollectionResult

	if len(atts) > d.cfg.MaxFilesPerMessage {
		err := fmt.Sprintf(d.cfg.Messages.ErrTooManyFiles, len(atts), d.cfg.MaxFilesPerMessage)
		for _, att := range atts {
			result.Invalid = append(result.Invalid, Invalid{Attachment: att, Err: err})
		}
		return result
	}

	for _, att := range atts {
		vr := d.ValidateAttachment(att)
		if !vr.Valid {
			if att.Size > d.cfg.MaxFileSize {
				result.OversizedCount++
			}
			result.Invalid = append(result.Invalid, Invalid{Attachment: att, Err: vr.Err})
			continue
		}
		result.Valid = append(result.Valid, att)
		result.TotalSize += att.Size
	}
	return result
}

// ValidateAttachment runs the three ordered checks on one attachment:
// content-type presence, content-type support, file size. First failure wins.
func (d *Detector) ValidateAttachment(att Attachment) ValidationResult {
	if att.ContentType == "" {
		return ValidationResult{Err: fmt.Sprintf(d.cfg.Messages.ErrNoContentType, att.Name)}
	}
	if !IsSupportedType(att.ContentType) {
		return ValidationResult{Err: fmt.Sprintf(d.cfg.Messages.ErrUnsupported, att.Name, att.ContentType)}
	}
	if att.Size > d.cfg.MaxFileSize {
		return ValidationResult{Err: fmt.Sprintf(d.cfg.Messages.ErrFileTooLarge, att.Name, d.cfg.MaxFileSize)}
	}
	return ValidationResult{Valid: true, FileInfo: att}
}
