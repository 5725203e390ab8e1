package policy

import (
	"fmt"
	"time"

	"github.com/deskbridge/deskbridge/attachment"
	"github.com/deskbridge/deskbridge/retry"
)

/* Policy is the operator-tunable part of the attachment configuration,
 * loaded from bridge.yaml. Zero values mean "keep the compiled-in default".
 */
type Policy struct {
	MaxFileSizeMB        int64 `yaml:"max_file_size_mb"`
	MaxFilesPerMessage   int   `yaml:"max_files_per_message"`
	DownloadTimeoutSecs  int   `yaml:"download_timeout_seconds"`
	UploadTimeoutSecs    int   `yaml:"upload_timeout_seconds"`
	RetryMaxAttempts     int   `yaml:"retry_max_attempts"`
	RetryBaseDelayMillis int   `yaml:"retry_base_delay_ms"`
	RetryMaxDelayMillis  int   `yaml:"retry_max_delay_ms"`

	Messages messagesOverride `yaml:"messages"`
}

type messagesOverride struct {
	UploadSuccess   string `yaml:"upload_success"`
	UploadFailure   string `yaml:"upload_failure"`
	UnsupportedType string `yaml:"unsupported_type"`
}

// Validate checks that explicit values are usable
func (p *Policy) Validate() error {
	if p.MaxFileSizeMB < 0 {
		return fmt.Errorf("max_file_size_mb cannot be negative (got %d)", p.MaxFileSizeMB)
	}
	if p.MaxFilesPerMessage < 0 {
		return fmt.Errorf("max_files_per_message cannot be negative (got %d)", p.MaxFilesPerMessage)
	}
	if p.RetryMaxAttempts < 0 {
		return fmt.Errorf("retry_max_attempts cannot be negative (got %d)", p.RetryMaxAttempts)
	}
	if p.RetryBaseDelayMillis < 0 || p.RetryMaxDelayMillis < 0 {
		return fmt.Errorf("retry delays cannot be negative")
	}
	if p.RetryBaseDelayMillis > 0 && p.RetryMaxDelayMillis > 0 &&
		p.RetryMaxDelayMillis < p.RetryBaseDelayMillis {
		return fmt.Errorf("retry_max_delay_ms %d is below retry_base_delay_ms %d",
			p.RetryMaxDelayMillis, p.RetryBaseDelayMillis)
	}
	return nil
}

// Apply overlays the policy onto a base attachment configuration
func (p *Policy) Apply(base attachment.Config) attachment.Config {
	cfg := base
	if p.MaxFileSizeMB > 0 {
		cfg.MaxFileSize = p.MaxFileSizeMB * 1024 * 1024
	}
	if p.MaxFilesPerMessage > 0 {
		cfg.MaxFilesPerMessage = p.MaxFilesPerMessage
	}
	if p.DownloadTimeoutSecs > 0 {
		cfg.DownloadTimeout = time.Duration(p.DownloadTimeoutSecs) * time.Second
	}
	if p.UploadTimeoutSecs > 0 {
		cfg.UploadTimeout = time.Duration(p.UploadTimeoutSecs) * time.Second
	}
	cfg.Retry = p.applyRetry(base.Retry)

	if p.Messages.UploadSuccess != "" {
		cfg.Messages.UploadSuccess = p.Messages.UploadSuccess
	}
	if p.Messages.UploadFailure != "" {
		cfg.Messages.UploadFailure = p.Messages.UploadFailure
	}
	if p.Messages.UnsupportedType != "" {
		cfg.Messages.UnsupportedType = p.Messages.UnsupportedType
	}
	return cfg
}

func (p *Policy) applyRetry(base retry.Policy) retry.Policy {
	out := base
	if p.RetryMaxAttempts > 0 {
		out.MaxAttempts = p.RetryMaxAttempts
	}
	if p.RetryBaseDelayMillis > 0 {
		out.BaseDelay = time.Duration(p.RetryBaseDelayMillis) * time.Millisecond
	}
	if p.RetryMaxDelayMillis > 0 {
		out.MaxDelay = time.Duration(p.RetryMaxDelayMillis) * time.Millisecond
	}
	return out
}
