// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one decision as written by Export.
type ExportEntry struct {
	Session   string    `json:"session" yaml:"session"`
	Pass      string    `json:"pass" yaml:"pass"`
	Key       string    `json:"key" yaml:"key"`
	Field     string    `json:"field" yaml:"field"`
	Value     string    `json:"value" yaml:"value"`
	Previous  string    `json:"previous,omitempty" yaml:"previous,omitempty"`
	Undo      bool      `json:"undo,omitempty" yaml:"undo,omitempty"`
	DecidedAt time.Time `json:"decided_at" yaml:"decided_at"`
}

// Export writes the decisions matching f to w as "yaml" or "json".
func (j *Journal) Export(ctx context.Context, f Filter, format string, w io.Writer) error {
	entries, err := j.List(ctx, f)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	out := make([]ExportEntry, len(entries))
	for i, e := range entries {
		out[i] = ExportEntry{
			Session:   e.Session,
			Pass:      e.Pass,
			Key:       e.Key,
			Field:     e.Field,
			Value:     e.Value,
			Previous:  e.Previous,
			Undo:      e.Undo,
			DecidedAt: e.At,
		}
	}

	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format %q", format)
}
