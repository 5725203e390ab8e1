package attachment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/deskbridge/deskbridge/retry"
)

/* Handler performs the actual cross-platform transfer: download from the
 * source, validate, upload to the destination, in both directions, with
 * retry and aggregated partial-failure reporting.
 */

// Author identifies who a forwarded message is attributed to
type Author struct {
	Name  string
	Email string
}

// UploadResult is what the ticketing API reports for one batch upload
type UploadResult struct {
	Success bool
	Err     string
}

// Uploader posts a message with file attachments to the ticketing API
type Uploader interface {
	SendMessageWithAttachments(ctx context.Context, conversationID string, author Author, content string, files []*FileBuffer) (UploadResult, error)
}

// ThreadSender delivers content to a chat thread
type ThreadSender interface {
	SendText(ctx context.Context, threadID, content string) error
	SendFiles(ctx context.Context, threadID, content string, files []*FileBuffer) error
}

// TransferResult aggregates the outcome of one transfer batch.
// ProcessedCount reflects files that made it through download; the upload
// is all-or-nothing per batch.
type TransferResult struct {
	Success        bool
	ProcessedCount int
	Errors         []string
	ProcessingTime time.Duration
}

type Handler struct {
	cfg      Config
	detector *Detector
	dl       *Downloader
	uploader Uploader
	sender   ThreadSender
	logger   *slog.Logger
}

// NewHandler creates a handler with dependency injection
func NewHandler(cfg Config, detector *Detector, dl *Downloader, uploader Uploader, sender ThreadSender, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		detector: detector,
		dl:       dl,
		uploader: uploader,
		sender:   sender,
		logger:   logger,
	}
}

// ForwardToTicket runs the forward flow: validate the collection, download
// the valid attachments concurrently, and upload the surviving buffers to
// the ticketing conversation as one batch with retry. Text is never held
// hostage by attachments; a message with content still goes out when every
// file is rejected or fails to download.
func (h *Handler) ForwardToTicket(ctx context.Context, conversationID string, author Author, content string, atts []Attachment) (result TransferResult) {
	start := time.Now()
	defer func() {
		result.ProcessingTime = time.Since(start)
		if r := recover(); r != nil {
			h.logger.Error("unexpected failure in forward transfer",
				"conversationId", conversationID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			result = TransferResult{
				Errors:         append(result.Errors, fmt.Sprintf("unexpected failure: %v", r)),
				ProcessingTime: time.Since(start),
			}
		}
	}()

	validated := h.detector.ValidateAttachments(atts)
	for _, inv := range validated.Invalid {
		result.Errors = append(result.Errors, inv.Err)
	}

	var buffers []*FileBuffer
	if len(validated.Valid) > 0 {
		var downloadErrs []string
		buffers, downloadErrs = h.downloadAll(ctx, validated.Valid)
		result.Errors = append(result.Errors, downloadErrs...)
	}
	if len(buffers) == 0 && content == "" {
		// No surviving files and no text: nothing to send.
		return result
	}

	err := retry.Do(ctx, h.cfg.Retry, retryableUpload, func(ctx context.Context) error {
		uploadCtx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
		defer cancel()

		res, err := h.uploader.SendMessageWithAttachments(uploadCtx, conversationID, author, content, buffers)
		if err != nil {
			return fmt.Errorf("uploading batch: %w", err)
		}
		if !res.Success {
			return fmt.Errorf("upload rejected: %s", res.Err)
		}
		return nil
	})
	if err != nil {
		h.logger.Error("batch upload failed",
			"conversationId", conversationID,
			"files", len(buffers),
			"error", err,
		)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Success = true
	result.ProcessedCount = len(buffers)
	return result
}

// DeliverToThread runs the reverse flow: filter to supported images,
// download them, and send text plus surviving files to the chat thread.
// Text delivery is never blocked by partial attachment failure; if
// attachment processing blows up entirely, the plain text still goes out
// as a fallback before the failure is reported.
func (h *Handler) DeliverToThread(ctx context.Context, threadID, content string, atts []Attachment) (result TransferResult) {
	start := time.Now()
	defer func() {
		result.ProcessingTime = time.Since(start)
		if r := recover(); r != nil {
			h.logger.Error("unexpected failure in reverse transfer",
				"threadId", threadID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			result = h.textFallback(ctx, threadID, content, start,
				fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	supported := h.detector.FilterSupportedImages(atts)

	buffers, downloadErrs := h.downloadAll(ctx, supported)
	result.Errors = append(result.Errors, downloadErrs...)

	if len(buffers) == 0 {
		if content == "" {
			return result
		}
		if err := h.sender.SendText(ctx, threadID, content); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sending text: %v", err))
			return result
		}
		result.Success = true
		return result
	}

	if err := h.sender.SendFiles(ctx, threadID, content, buffers); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sending files: %v", err))
		return h.textFallback(ctx, threadID, content, start, result.Errors...)
	}

	result.Success = true
	result.ProcessedCount = len(buffers)
	return result
}

// downloadAll fetches attachments concurrently in an all-settled fashion:
// one failed download never cancels the others, and results stay
// index-aligned with their source attachments.
func (h *Handler) downloadAll(ctx context.Context, atts []Attachment) ([]*FileBuffer, []string) {
	type settled struct {
		buf *FileBuffer
		err error
	}

	results := make([]settled, len(atts))
	var wg sync.WaitGroup
	for i, att := range atts {
		wg.Add(1)
		go func(i int, att Attachment) {
			defer wg.Done()
			buf, err := h.dl.Download(ctx, att)
			results[i] = settled{buf: buf, err: err}
		}(i, att)
	}
	wg.Wait()

	var buffers []*FileBuffer
	var errs []string
	for i, res := range results {
		if res.err != nil {
			h.logger.Warn("attachment download failed",
				"name", atts[i].Name,
				"strategy", ClassifyDownload(atts[i]).String(),
				"timeout", errors.Is(res.err, ErrTimeout),
				"error", res.err,
			)
			errs = append(errs, res.err.Error())
			continue
		}
		buffers = append(buffers, res.buf)
	}
	return buffers, errs
}

// textFallback attempts to deliver the plain text after attachment
// processing failed. Any delivered text turns the batch into a success.
func (h *Handler) textFallback(ctx context.Context, threadID, content string, start time.Time, errs ...string) TransferResult {
	result := TransferResult{Errors: errs, ProcessingTime: time.Since(start)}
	if content == "" {
		return result
	}
	if err := h.sender.SendText(ctx, threadID, content); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sending fallback text: %v", err))
		return result
	}
	result.Success = true
	result.ProcessingTime = time.Since(start)
	return result
}

// retryableUpload classifies upload errors. Cancellation is terminal;
// everything else (timeouts, transport resets, API-reported failures)
// gets another attempt.
func retryableUpload(err error) bool {
	return !errors.Is(err, context.Canceled)
}
