// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package personalize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

type templateFile struct {
	Messages []struct {
		Content string `json:"content" yaml:"content"`
	} `json:"messages" yaml:"messages"`
}

// LoadTemplates reads message templates from a file shaped like
// {"messages": [{"content": "..."}]}. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. Blank entries are dropped.
func LoadTemplates(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	var tf templateFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tf)
	default:
		err = json.Unmarshal(data, &tf)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", path, err)
	}

	var out []string
	for _, m := range tf.Messages {
		if strings.TrimSpace(m.Content) != "" {
			out = append(out, m.Content)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTemplates)
	}
	return out, nil
}
