package specs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseDocument parses spec text (YAML, or JSON as a YAML subset) into a
// generic document tree. A blank document or one that isn't a mapping at
// the root is rejected, mirroring BaseSpec's constructor raising
// ValueError on unparsable or malformed input.
func ParseDocument(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("specs: spec text is empty")
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("specs: invalid spec text: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("specs: spec document must be a mapping")
	}
	return doc, nil
}
