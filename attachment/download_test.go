package attachment_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskbridge/deskbridge/attachment"
)

func TestClassifyDownload(t *testing.T) {
	t.Run("file service identifiers use the thumbnail endpoint", func(t *testing.T) {
		att := attachment.Attachment{ID: "file_01HXYZABCDEFGHJKMNPQRS"}
		assert.Equal(t, attachment.ThumbnailEndpoint, attachment.ClassifyDownload(att))
	})

	t.Run("everything else downloads directly", func(t *testing.T) {
		for _, id := range []string{"", "12345", "file_short", "att_01HXYZABCDEFGHJKMNPQRS"} {
			att := attachment.Attachment{ID: id}
			assert.Equal(t, attachment.DirectURL, attachment.ClassifyDownload(att), "id %q", id)
		}
	})
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "direct_url", attachment.DirectURL.String())
	assert.Equal(t, "thumbnail_endpoint", attachment.ThumbnailEndpoint.String())
	assert.Equal(t, "unknown", attachment.Strategy(0).String())
}

func newDownloader(t *testing.T, cfg attachment.Config, svc attachment.DownloaderConfig) (*attachment.Downloader, *logRecorder) {
	t.Helper()
	logger, rec := newTestLogger()
	return attachment.NewDownloader(nil, cfg, svc, logger), rec
}

func TestDownloadDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("buffers the response body", func(t *testing.T) {
		payload := bytes.Repeat([]byte("x"), 2048)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write(payload)
		}))
		defer srv.Close()

		dl, _ := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{})
		buf, err := dl.Download(ctx, attachment.Attachment{
			Name:        "shot.png",
			URL:         srv.URL,
			ContentType: "image/png",
			Size:        2048,
		})

		require.NoError(t, err)
		assert.Equal(t, "shot.png", buf.Name)
		assert.Equal(t, "image/png", buf.ContentType)
		assert.Equal(t, int64(2048), buf.Size)
		assert.Equal(t, payload, buf.Data)
	})

	t.Run("size mismatch warns but does not fail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(bytes.Repeat([]byte("y"), 1024))
		}))
		defer srv.Close()

		dl, rec := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{})
		buf, err := dl.Download(ctx, attachment.Attachment{
			Name:        "shot.png",
			URL:         srv.URL,
			ContentType: "image/png",
			Size:        2048, // declared, actual is 1024
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1024), buf.Size)
		assert.True(t, rec.has(slog.LevelWarn, "size differs"))
	})

	t.Run("defaults the content type when nothing declares one", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Del("Content-Type")
			w.Write([]byte{0x1, 0x2})
		}))
		defer srv.Close()

		dl, _ := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{})
		buf, err := dl.Download(ctx, attachment.Attachment{URL: srv.URL})

		require.NoError(t, err)
		// httptest sniffs a content type; anything is acceptable as long
		// as a name was generated.
		assert.NotEmpty(t, buf.ContentType)
		assert.True(t, strings.HasPrefix(buf.Name, "attachment."))
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		dl, _ := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{})
		_, err := dl.Download(ctx, attachment.Attachment{Name: "gone.png", URL: srv.URL})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})

	t.Run("missing URL fails fast", func(t *testing.T) {
		dl, _ := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{})
		_, err := dl.Download(ctx, attachment.Attachment{Name: "nowhere.png"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no download URL")
	})
}

func TestDownloadThumbnail(t *testing.T) {
	ctx := context.Background()

	t.Run("hits the authenticated rendering endpoint", func(t *testing.T) {
		fileID := "file_01HXYZABCDEFGHJKMNPQRS"

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/files/"+fileID+"/thumbnail", r.URL.Path)
			assert.Equal(t, "1600", r.URL.Query().Get("thumbSize"))
			assert.Equal(t, "team-42", r.URL.Query().Get("teamId"))
			assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
			assert.Equal(t, "application/octet-stream", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegbytes"))
		}))
		defer srv.Close()

		dl, _ := newDownloader(t, attachment.DefaultConfig(), attachment.DownloaderConfig{
			ThumbnailBaseURL: srv.URL,
			APIKey:           "secret-key",
			TeamID:           "team-42",
		})

		buf, err := dl.Download(ctx, attachment.Attachment{
			ID:   fileID,
			Name: "photo.jpg",
			Size: 9,
		})

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", buf.ContentType)
		assert.Equal(t, []byte("jpegbytes"), buf.Data)
	})
}

func TestDownloadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := attachment.DefaultConfig()
	cfg.DownloadTimeout = 50 * time.Millisecond

	dl, _ := newDownloader(t, cfg, attachment.DownloaderConfig{})
	_, err := dl.Download(context.Background(), attachment.Attachment{Name: "slow.png", URL: srv.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, attachment.ErrTimeout)
}
