package attachment

import (
	"strings"
	"time"

	"github.com/deskbridge/deskbridge/retry"
)

/* Config is the single source of truth for attachment limits and
 * user-facing messages. Defaults are compiled in; bridge.yaml may
 * override them (see the policy package).
 */

const (
	// DefaultMaxFileSize is the per-file ceiling in bytes
	DefaultMaxFileSize = 8 * 1024 * 1024

	// DefaultMaxFilesPerMessage caps how many files one message may carry
	DefaultMaxFilesPerMessage = 10

	// DefaultDownloadTimeout bounds one attachment download
	DefaultDownloadTimeout = 15 * time.Second

	// DefaultUploadTimeout bounds one batch upload
	DefaultUploadTimeout = 30 * time.Second

	// FallbackContentType is used when the source declares no MIME type
	FallbackContentType = "application/octet-stream"

	// fallbackExtension is returned for MIME types outside the supported set
	fallbackExtension = "bin"
)

// supportedImageTypes is the canonical ordered set of transferable types.
// Extension lookups and support checks are exact matches against this set;
// normalization is the caller's job.
var supportedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/gif",
	"image/webp",
}

var extensionByType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Messages holds every user-facing string so tone stays consistent and
// localization stays cheap. Entries with a %-verb are format templates.
type Messages struct {
	UploadSuccess    string `yaml:"upload_success"`
	UploadFailure    string `yaml:"upload_failure"`
	UnsupportedType  string `yaml:"unsupported_type"`
	ErrNoContentType string `yaml:"err_no_content_type"` // %s = filename
	ErrUnsupported   string `yaml:"err_unsupported"`     // %s = filename, %s = type
	ErrFileTooLarge  string `yaml:"err_file_too_large"`  // %s = filename, %d = limit
	ErrTooManyFiles  string `yaml:"err_too_many_files"`  // %d = count, %d = limit
}

// DefaultMessages returns the compiled-in message table
func DefaultMessages() Messages {
	return Messages{
		UploadSuccess:    "✅",
		UploadFailure:    "❌",
		UnsupportedType:  "Sorry, only PNG, JPEG, GIF and WebP images can be attached.",
		ErrNoContentType: "file %s has no content type",
		ErrUnsupported:   "file %s has unsupported type %s",
		ErrFileTooLarge:  "file %s exceeds maximum size of %d bytes",
		ErrTooManyFiles:  "too many files: %d exceeds limit of %d",
	}
}

// Config is the static attachment policy
type Config struct {
	MaxFileSize        int64
	MaxFilesPerMessage int
	DownloadTimeout    time.Duration
	UploadTimeout      time.Duration
	Retry              retry.Policy
	Messages           Messages
}

// DefaultConfig returns the compiled-in policy
func DefaultConfig() Config {
	return Config{
		MaxFileSize:        DefaultMaxFileSize,
		MaxFilesPerMessage: DefaultMaxFilesPerMessage,
		DownloadTimeout:    DefaultDownloadTimeout,
		UploadTimeout:      DefaultUploadTimeout,
		Retry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    10 * time.Second,
		},
		Messages: DefaultMessages(),
	}
}

// SupportedImageTypes returns a copy of the canonical set
func SupportedImageTypes() []string {
	out := make([]string, len(supportedImageTypes))
	copy(out, supportedImageTypes)
	return out
}

// NormalizeContentType strips MIME parameters and canonicalizes casing:
// "IMAGE/PNG; charset=utf-8" becomes "image/png". Idempotent.
func NormalizeContentType(raw string) string {
	if i := strings.Index(raw, ";"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsSupportedType reports whether the raw content type normalizes into the
// supported image set.
func IsSupportedType(raw string) bool {
	normalized := NormalizeContentType(raw)
	for _, t := range supportedImageTypes {
		if normalized == t {
			return true
		}
	}
	return false
}

// ExtensionForMIMEType maps an already-normalized MIME type to a filename
// extension. Anything outside the supported set, including case variants
// and parameterized strings, gets the "bin" sentinel.
func ExtensionForMIMEType(mime string) string {
	if ext, ok := extensionByType[mime]; ok {
		return ext
	}
	return fallbackExtension
}
