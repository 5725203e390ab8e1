package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/deskbridge/deskbridge/attachment"
)

/* HTTP client for the dashboard ticketing API. Implements
 * attachment.Uploader: one multipart POST per conversation message,
 * text fields plus binary file parts, bearer-key authentication.
 */

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a dashboard API client.
// A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  httpClient,
	}
}

// messageResponse is the API's answer to a message post
type messageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendMessageWithAttachments posts text plus file buffers to the
// per-conversation message endpoint as one multipart request.
func (c *Client) SendMessageWithAttachments(ctx context.Context, conversationID string, author attachment.Author, content string, files []*attachment.FileBuffer) (attachment.UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"content":      content,
		"author_name":  author.Name,
		"author_email": author.Email,
	}
	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			return attachment.UploadResult{}, fmt.Errorf("writing field %s: %w", field, err)
		}
	}

	for i, file := range files {
		part, err := createFilePart(w, fmt.Sprintf("files[%d]", i), file)
		if err != nil {
			return attachment.UploadResult{}, fmt.Errorf("creating file part for %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return attachment.UploadResult{}, fmt.Errorf("writing file %s: %w", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return attachment.UploadResult{}, fmt.Errorf("finalizing multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/conversations/%s/messages", c.baseURL, url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return attachment.UploadResult{}, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return attachment.UploadResult{}, fmt.Errorf("%w: uploading to conversation %s", attachment.ErrTimeout, conversationID)
		}
		return attachment.UploadResult{}, fmt.Errorf("uploading to conversation %s: %w", conversationID, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return attachment.UploadResult{}, fmt.Errorf("reading upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return attachment.UploadResult{
			Err: fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(payload), 200)),
		}, nil
	}

	var mr messageResponse
	if err := json.Unmarshal(payload, &mr); err != nil {
		return attachment.UploadResult{}, fmt.Errorf("unmarshaling upload response: %w", err)
	}
	return attachment.UploadResult{Success: mr.Success, Err: mr.Error}, nil
}

// createFilePart adds a file part carrying the buffer's own content type,
// which CreateFormFile would otherwise pin to application/octet-stream.
func createFilePart(w *multipart.Writer, field string, file *attachment.FileBuffer) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	header.Set("Content-Type", file.ContentType)
	return w.CreatePart(header)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
