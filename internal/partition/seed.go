// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// DefaultProfileBase is the URL prefix seeded profiles are built on.
const DefaultProfileBase = "https://www.instagram.com/"

// Seed turns exported records carrying a username into review records
// holding the username and its profile URL. Records without a username are
// counted and dropped; repeated usernames are kept once.
func Seed(exported []*types.Record, base string) (records []*types.Record, dropped int) {
	if base == "" {
		base = DefaultProfileBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	seen := make(map[string]bool)
	for _, in := range exported {
		username := strings.TrimPrefix(strings.TrimSpace(in.String(types.FieldUsername)), "@")
		if username == "" || seen[username] {
			dropped++
			continue
		}
		seen[username] = true
		records = append(records, types.MustRecord(map[string]any{
			types.FieldUsername:   username,
			types.FieldProfileURL: base + username + "/",
		}))
	}
	return records, dropped
}
