package main

import (
	"fmt"
	"os"

	"github.com/deskbridge/deskbridge/policy"
)

/* validate-policy - Standalone CLI tool to validate bridge.yaml
 * Usage: go run cmd/validate-policy/main.go [bridge.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	policyFile := "bridge.yaml"
	if len(os.Args) > 1 {
		policyFile = os.Args[1]
	}

	fmt.Printf("Validating policy file: %s\n\n", policyFile)

	cfg, err := policy.Load(policyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Effective configuration:\n")
	fmt.Printf("   Max File Size:      %d bytes\n", cfg.MaxFileSize)
	fmt.Printf("   Max Files/Message:  %d\n", cfg.MaxFilesPerMessage)
	fmt.Printf("   Download Timeout:   %s\n", cfg.DownloadTimeout)
	fmt.Printf("   Upload Timeout:     %s\n", cfg.UploadTimeout)
	fmt.Printf("   Retry Attempts:     %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("   Retry Base Delay:   %s\n", cfg.Retry.BaseDelay)
	fmt.Printf("   Retry Max Delay:    %s\n", cfg.Retry.MaxDelay)

	os.Exit(0)
}
