// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/outreach-engine/internal/review"
)

const clearScreen = "\033[2J\033[H"

// Hints shown under the counters for each pass.
const (
	ClassifyHint = "→/y yes | ←/n no | ↑/m maybe | o other | u undo | s stop | ? help"
	MessageHint  = "→/y sent | ←/n not sent | s stop | ? help"
)

var (
	headerColor = color.New(color.FgBlue, color.Bold).SprintfFunc()
	yesColor    = color.New(color.FgGreen).SprintfFunc()
	noColor     = color.New(color.FgRed).SprintfFunc()
	maybeColor  = color.New(color.FgYellow).SprintfFunc()
	noteColor   = color.New(color.FgCyan).SprintFunc()
)

// Presenter renders review frames as a cleared screen with colored counters.
type Presenter struct {
	Out  io.Writer
	Hint string

	// Clear redraws from the top of the screen for every frame.
	Clear bool
}

var _ review.Presenter = (*Presenter)(nil)

// Show renders f.
func (p *Presenter) Show(f review.Frame) {
	w := p.Out
	if p.Clear {
		fmt.Fprint(w, clearScreen)
	}

	s := f.Snapshot
	fmt.Fprintln(w, headerColor("%s progress: %d/%d", passTitle(f.Pass), s.Index, s.Total))

	parts := make([]string, 0, len(s.Buckets)+2)
	for _, v := range s.Values() {
		parts = append(parts, bucketColor(v)("%s: %d", capitalize(v), s.Count(v)))
	}
	parts = append(parts, fmt.Sprintf("Qualified: %d", s.Qualified))
	if s.Flagged > 0 {
		parts = append(parts, fmt.Sprintf("Other: %d", s.Flagged))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	if p.Hint != "" {
		fmt.Fprintln(w, p.Hint)
	}
	if f.Message != "" {
		fmt.Fprintln(w, noteColor(f.Message))
	}

	fmt.Fprintf(w, "\n--- Record %d / %d ---\n", f.Position, f.Pending)
	if f.Record != nil {
		fmt.Fprintf(w, "Text: %s\n", f.Record.DisplayText())
	}
	fmt.Fprintf(w, "URL: %s\n", f.Key)
}

func passTitle(name string) string {
	switch name {
	case "classify":
		return "Classification"
	case "message":
		return "Messaging"
	}
	return capitalize(name)
}

func bucketColor(v string) func(format string, a ...any) string {
	switch v {
	case "yes":
		return yesColor
	case "no":
		return noColor
	case "maybe":
		return maybeColor
	}
	return fmt.Sprintf
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
