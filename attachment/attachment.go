package attachment

import "strconv"

/* Attachment is the canonical record every source shape is normalized
 * into at the ingress boundary. Business logic never sniffs alternate
 * field names; NormalizeRecord is the only place that knows them.
 */
type Attachment struct {
	ID          string
	Name        string
	URL         string
	ContentType string // "" when the source declared none
	Size        int64
}

// FileBuffer is one downloaded file held in memory between download and
// upload. Owned exclusively by the handler call that created it; never
// persisted or shared.
type FileBuffer struct {
	Data        []byte
	Name        string
	ContentType string
	Size        int64
}

// NormalizeRecord maps a heterogeneous raw attachment object into the
// canonical record. Different source backends name the same fields
// differently (filename vs name, content_type vs mimetype); all of those
// spellings are resolved here and nowhere else.
func NormalizeRecord(raw map[string]any) Attachment {
	return Attachment{
		ID:          stringField(raw, "id", "fileId", "file_id"),
		Name:        stringField(raw, "name", "filename", "file_name"),
		URL:         stringField(raw, "url", "data_url", "downloadUrl"),
		ContentType: stringField(raw, "contentType", "content_type", "mimetype", "mime_type"),
		Size:        intField(raw, "size", "file_size", "sizeBytes"),
	}
}

// NormalizeRecords maps a raw attachment collection, preserving order
func NormalizeRecords(raws []map[string]any) []Attachment {
	if raws == nil {
		return nil
	}
	out := make([]Attachment, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeRecord(raw))
	}
	return out
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
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

func intField(raw map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
