package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCatalog reads the named-preset catalog: a YAML map from short spoken
// names ("pirate") to full preset bodies. A missing file yields an empty
// catalog; the "set preset to" command then always uses the raw spoken text.
func LoadCatalog(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preset catalog %s: %w", path, err)
	}

	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse preset catalog %s: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for name, body := range raw {
		out[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(body)
	}
	return out, nil
}
