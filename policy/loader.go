package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deskbridge/deskbridge/attachment"
)

/* Loader reads bridge.yaml and produces the effective attachment
 * configuration: compiled-in defaults overlaid with the file's values.
 */

// Load reads and applies a policy file. An empty path returns the
// defaults untouched.
func Load(filePath string) (attachment.Config, error) {
	base := attachment.DefaultConfig()
	if filePath == "" {
		return base, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return attachment.Config{}, fmt.Errorf("reading policy file: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return attachment.Config{}, fmt.Errorf("parsing policy YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return attachment.Config{}, fmt.Errorf("validating policy: %w", err)
	}

	return p.Apply(base), nil
}
