package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

/* Downloader fetches attachment bytes into memory. Two strategies exist
 * because the dashboard stores some files in a file service that only
 * serves them through an authenticated thumbnail endpoint; everything
 * else is a plain URL GET.
 */

// ErrTimeout marks a network timeout, distinguishable from generic failures
var ErrTimeout = errors.New("network timeout")

// Strategy selects how an attachment's bytes are retrieved
type Strategy int

const (
	DirectURL Strategy = iota + 1
	ThumbnailEndpoint
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case DirectURL:
		return "direct_url"
	case ThumbnailEndpoint:
		return "thumbnail_endpoint"
	default:
		return "unknown"
	}
}

// File-service identifiers carry this prefix and a fixed-length suffix.
// Anything else downloads from its URL directly.
const (
	fileServiceIDPrefix = "file_"
	fileServiceIDLen    = 25
)

// ClassifyDownload returns the strategy for one attachment based on the
// shape of its identifier.
func ClassifyDownload(att Attachment) Strategy {
	if strings.HasPrefix(att.ID, fileServiceIDPrefix) && len(att.ID) >= fileServiceIDLen {
		return ThumbnailEndpoint
	}
	return DirectURL
}

// DownloaderConfig carries the dashboard file-service credentials
type DownloaderConfig struct {
	ThumbnailBaseURL string
	APIKey           string
	TeamID           string
	ThumbSize        int
}

type Downloader struct {
	client *http.Client
	cfg    Config
	svc    DownloaderConfig
	logger *slog.Logger
}

// NewDownloader creates a downloader with dependency injection.
// A nil client falls back to http.DefaultClient.
func NewDownloader(client *http.Client, cfg Config, svc DownloaderConfig, logger *slog.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if svc.ThumbSize == 0 {
		svc.ThumbSize = 1600
	}
	return &Downloader{client: client, cfg: cfg, svc: svc, logger: logger}
}

// Download fetches one attachment into a file buffer using the strategy
// its identifier calls for. The configured download timeout applies; on
// expiry the returned error wraps ErrTimeout.
func (d *Downloader) Download(ctx context.Context, att Attachment) (*FileBuffer, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.DownloadTimeout)
	defer cancel()

	switch ClassifyDownload(att) {
	case ThumbnailEndpoint:
		return d.downloadThumbnail(ctx, att)
	default:
		return d.downloadDirect(ctx, att)
	}
}

// downloadDirect GETs the attachment's own URL
func (d *Downloader) downloadDirect(ctx context.Context, att Attachment) (*FileBuffer, error) {
	if att.URL == "" {
		return nil, fmt.Errorf("attachment %s has no download URL", att.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	return d.fetch(req, att)
}

// downloadThumbnail GETs the authenticated file-service rendering endpoint
func (d *Downloader) downloadThumbnail(ctx context.Context, att Attachment) (*FileBuffer, error) {
	endpoint := fmt.Sprintf("%s/v1/files/%s/thumbnail", d.svc.ThumbnailBaseURL, url.PathEscape(att.ID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building thumbnail request: %w", err)
	}

	q := req.URL.Query()
	q.Set("thumbSize", fmt.Sprintf("%d", d.svc.ThumbSize))
	q.Set("teamId", d.svc.TeamID)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("X-API-Key", d.svc.APIKey)
	req.Header.Set("Accept", "application/octet-stream")

	return d.fetch(req, att)
}

func (d *Downloader) fetch(req *http.Request, att Attachment) (*FileBuffer, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: downloading %s", ErrTimeout, att.Name)
		}
		return nil, fmt.Errorf("downloading %s: %w", att.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %d", att.Name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: reading %s", ErrTimeout, att.Name)
		}
		return nil, fmt.Errorf("reading %s: %w", att.Name, err)
	}

	// A mismatch against the declared size is suspicious but not fatal;
	// the bytes we got are the bytes we send.
	if att.Size > 0 && int64(len(data)) != att.Size {
		d.logger.Warn("downloaded size differs from declared size",
			"name", att.Name,
			"declared", att.Size,
			"actual", len(data),
		)
	}

	contentType := NormalizeContentType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = NormalizeContentType(att.ContentType)
	}
	if contentType == "" {
		contentType = FallbackContentType
	}

	name := att.Name
	if name == "" {
		name = fmt.Sprintf("attachment.%s", ExtensionForMIMEType(contentType))
	}

	return &FileBuffer{
		Data:        data,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}
