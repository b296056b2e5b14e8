// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/outreach-engine/internal/container"
)

// DefaultImage is the NER image used by the container backend.
const DefaultImage = "outreach-ner:latest"

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Names []string `json:"names"`
}

// ContainerExtractor sends each text to an NER container as {"text": ...}
// on stdin and reads {"names": [...]} from stdout. The container runs
// without network access.
type ContainerExtractor struct {
	runtime container.Runtime
	image   string
}

// NewContainerExtractor verifies that image exists in rt before returning.
func NewContainerExtractor(ctx context.Context, rt container.Runtime, image string) (*ContainerExtractor, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("NER image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt, image: image}, nil
}

// Extract implements Extractor.
func (c *ContainerExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	req, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding NER request: %w", err)
	}

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, []string{"--network", "none"}, bytes.NewReader(req), &out); err != nil {
		return nil, fmt.Errorf("extracting names with %s: %w", c.image, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced empty output", c.image)
	}

	var resp nerResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parsing NER response: %w", err)
	}
	return resp.Names, nil
}
