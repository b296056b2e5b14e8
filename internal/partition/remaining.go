// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Remaining lists commenters with no parsed profile, once per username, in
// comment order. The profile URL is taken from the comment (profileURL or
// profileUrl) and built from base when the comment has none.
func Remaining(comments, profiles []*types.Record, base string) []*types.Record {
	if base == "" {
		base = DefaultProfileBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	parsed := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if u := strings.TrimSpace(p.String(types.FieldUsername)); u != "" {
			parsed[u] = true
		}
	}

	seen := make(map[string]bool)
	var out []*types.Record
	for _, c := range comments {
		username := strings.TrimSpace(c.String(types.FieldUsername))
		if username == "" || parsed[username] || seen[username] {
			continue
		}
		seen[username] = true

		url := c.String(types.FieldProfileURL)
		if url == "" {
			url = c.String("profileUrl")
		}
		if url == "" {
			url = base + username + "/"
		}
		out = append(out, types.MustRecord(map[string]any{
			types.FieldUsername:   username,
			types.FieldProfileURL: url,
		}))
	}
	return out
}
