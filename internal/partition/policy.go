// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"fmt"
	"strings"
)

// Policy decides what happens to duplicate URLs.
type Policy string

const (
	// PolicyPrompt asks the operator to choose skip or keep.
	PolicyPrompt Policy = "prompt"
	// PolicySkip drops every URL that appeared more than once.
	PolicySkip Policy = "skip"
	// PolicyKeep writes the first occurrence and every conflicting copy.
	PolicyKeep Policy = "keep"
)

// ParsePolicy validates a policy name. Empty means prompt.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyPrompt:
		return PolicyPrompt, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyKeep:
		return PolicyKeep, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q", value)
}
