package attachment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskbridge/deskbridge/attachment"
)

func TestNormalizeRecord(t *testing.T) {
	t.Run("canonical field names", func(t *testing.T) {
		att := attachment.NormalizeRecord(map[string]any{
			"id":          "att-1",
			"name":        "shot.png",
			"url":         "https://cdn.example.com/shot.png",
			"contentType": "image/png",
			"size":        float64(2048),
		})

		assert.Equal(t, attachment.Attachment{
			ID:          "att-1",
			Name:        "shot.png",
			URL:         "https://cdn.example.com/shot.png",
			ContentType: "image/png",
			Size:        2048,
		}, att)
	})

	t.Run("alternate field spellings", func(t *testing.T) {
		att := attachment.NormalizeRecord(map[string]any{
			"file_id":      "file_01HXYZABCDEFGHJKMNPQRS",
			"filename":     "photo.jpg",
			"data_url":     "https://cdn.example.com/photo.jpg",
			"content_type": "image/jpeg",
			"file_size":    float64(4096),
		})

		assert.Equal(t, "file_01HXYZABCDEFGHJKMNPQRS", att.ID)
		assert.Equal(t, "photo.jpg", att.Name)
		assert.Equal(t, "https://cdn.example.com/photo.jpg", att.URL)
		assert.Equal(t, "image/jpeg", att.ContentType)
		assert.Equal(t, int64(4096), att.Size)
	})

	t.Run("first non-empty spelling wins", func(t *testing.T) {
		att := attachment.NormalizeRecord(map[string]any{
			"name":     "",
			"filename": "fallback.gif",
			"mimetype": "image/gif",
		})

		assert.Equal(t, "fallback.gif", att.Name)
		assert.Equal(t, "image/gif", att.ContentType)
	})

	t.Run("string sizes are parsed", func(t *testing.T) {
		att := attachment.NormalizeRecord(map[string]any{"size": "1024"})
		assert.Equal(t, int64(1024), att.Size)
	})

	t.Run("missing fields zero out", func(t *testing.T) {
		att := attachment.NormalizeRecord(map[string]any{})
		assert.Equal(t, attachment.Attachment{}, att)
	})
}

func TestNormalizeRecords(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		atts := attachment.NormalizeRecords([]map[string]any{
			{"name": "a.png"},
			{"name": "b.png"},
		})

		require.Len(t, atts, 2)
		assert.Equal(t, "a.png", atts[0].Name)
		assert.Equal(t, "b.png", atts[1].Name)
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		assert.Nil(t, attachment.NormalizeRecords(nil))
	})
}
