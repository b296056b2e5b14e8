// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terminal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	goruntime "runtime"
	"time"

	"github.com/pdiddy/outreach-engine/internal/review"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// DefaultFocusDelay is the pause between opening a link and re-activating
// the terminal, giving the browser time to take focus first.
const DefaultFocusDelay = 500 * time.Millisecond

// runner abstracts process launching for testing.
type runner interface {
	// Start launches a process without waiting for it.
	Start(ctx context.Context, name string, args ...string) error
	// Run launches a process and waits for it.
	Run(ctx context.Context, name string, args ...string) error
}

type osRunner struct{}

func (osRunner) Start(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (osRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Opener opens links in the default browser and optionally brings the
// terminal application back to the front.
type Opener struct {
	// FocusApp is the application re-activated after a link opens. Only
	// honored on macOS; empty disables it.
	FocusApp   string
	FocusDelay time.Duration

	goos  string
	run   runner
	sleep func(time.Duration)
}

// NewOpener returns an Opener for the current platform.
func NewOpener(focusApp string) *Opener {
	return &Opener{
		FocusApp:   focusApp,
		FocusDelay: DefaultFocusDelay,
		goos:       goruntime.GOOS,
		run:        osRunner{},
		sleep:      time.Sleep,
	}
}

// Open launches the platform URL handler for url.
func (o *Opener) Open(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("empty url")
	}
	name, args := openCommand(o.goos, url)
	if err := o.run.Start(ctx, name, args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", url, name, err)
	}
	return nil
}

// Focus re-activates FocusApp. It is a no-op off macOS or when FocusApp is empty.
func (o *Opener) Focus(ctx context.Context) error {
	if o.goos != "darwin" || o.FocusApp == "" {
		return nil
	}
	script := fmt.Sprintf("tell application %q to activate", o.FocusApp)
	if err := o.run.Run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("activating %s: %w", o.FocusApp, err)
	}
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	}
	return "xdg-open", []string{url}
}

// OpenHook returns an action hook that opens the record's key field as a
// link, then re-focuses the terminal.
func OpenHook(o *Opener, keyField string) review.ActionHook {
	return review.Hook("open link", func(ctx context.Context, rec *types.Record) error {
		if err := o.Open(ctx, rec.Key(keyField)); err != nil {
			return err
		}
		if o.goos == "darwin" && o.FocusApp != "" && o.FocusDelay > 0 {
			o.sleep(o.FocusDelay)
		}
		return o.Focus(ctx)
	})
}
