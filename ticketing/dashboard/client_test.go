package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskbridge/deskbridge/attachment"
	"github.com/deskbridge/deskbridge/ticketing/dashboard"
)

func TestSendMessageWithAttachments(t *testing.T) {
	ctx := context.Background()
	author := attachment.Author{Name: "Alex", Email: "alex@example.com"}
	files := []*attachment.FileBuffer{
		{Name: "shot.png", ContentType: "image/png", Size: 3, Data: []byte("png")},
		{Name: "pic.gif", ContentType: "image/gif", Size: 3, Data: []byte("gif")},
	}

	t.Run("posts one multipart request per message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/conversations/conv-1/messages", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "see attached", r.FormValue("content"))
			assert.Equal(t, "Alex", r.FormValue("author_name"))
			assert.Equal(t, "alex@example.com", r.FormValue("author_email"))

			first := r.MultipartForm.File["files[0]"]
			require.Len(t, first, 1)
			assert.Equal(t, "shot.png", first[0].Filename)
			assert.Equal(t, "image/png", first[0].Header.Get("Content-Type"))

			second := r.MultipartForm.File["files[1]"]
			require.Len(t, second, 1)
			assert.Equal(t, "pic.gif", second[0].Filename)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": true}`))
		}))
		defer srv.Close()

		client := dashboard.NewClient(srv.URL, "test-key", srv.Client())
		res, err := client.SendMessageWithAttachments(ctx, "conv-1", author, "see attached", files)

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Empty(t, res.Err)
	})

	t.Run("API-level rejection is a result, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": false, "error": "conversation is closed"}`))
		}))
		defer srv.Close()

		client := dashboard.NewClient(srv.URL, "test-key", srv.Client())
		res, err := client.SendMessageWithAttachments(ctx, "conv-1", author, "", nil)

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "conversation is closed", res.Err)
	})

	t.Run("non-2xx status is a result carrying the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("slow down"))
		}))
		defer srv.Close()

		client := dashboard.NewClient(srv.URL, "test-key", srv.Client())
		res, err := client.SendMessageWithAttachments(ctx, "conv-1", author, "", nil)

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Err, "status 429")
		assert.Contains(t, res.Err, "slow down")
	})

	t.Run("deadline expiry maps to the timeout sentinel", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer srv.Close()

		client := dashboard.NewClient(srv.URL, "test-key", srv.Client())
		shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := client.SendMessageWithAttachments(shortCtx, "conv-1", author, "", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, attachment.ErrTimeout)
	})

	t.Run("trailing slash in the base URL is tolerated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/conversations/conv-1/messages", r.URL.Path)
			w.Write([]byte(`{"success": true}`))
		}))
		defer srv.Close()

		client := dashboard.NewClient(srv.URL+"/", "test-key", srv.Client())
		res, err := client.SendMessageWithAttachments(ctx, "conv-1", author, "", nil)

		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}
