// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"github.com/pdiddy/outreach-engine/internal/personalize"
	"github.com/pdiddy/outreach-engine/internal/review"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// StageHook returns an action hook that composes a message for the record
// and places it on the system clipboard. The message is always printed to w;
// when the clipboard is unavailable the operator can copy it from there.
func StageHook(c *personalize.Composer, w io.Writer) review.ActionHook {
	return review.Hook("stage message", func(_ context.Context, rec *types.Record) error {
		msg, err := c.Compose(rec)
		if err != nil {
			return fmt.Errorf("composing message: %w", err)
		}
		if err := clipboardWriteAll(msg); err != nil {
			fmt.Fprintf(w, "Message (copy manually):\n%s\n\n", msg)
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintf(w, "Message copied to clipboard:\n%s\n\n", msg)
		return nil
	})
}
