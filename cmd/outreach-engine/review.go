// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/journal"
	"github.com/pdiddy/outreach-engine/internal/progress"
	"github.com/pdiddy/outreach-engine/internal/review"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/internal/terminal"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// addReviewFlags registers the flags shared by both review passes.
func addReviewFlags(cmd *cobra.Command, input, output string) {
	cmd.Flags().String("input", input, "JSON array of records to review")
	cmd.Flags().String("output", output, "JSON file receiving the results")
	cmd.Flags().String("key-field", types.DefaultKeyField, "record field holding the unique key")
	cmd.Flags().Int("save-every", review.DefaultSaveEvery, "committed decisions between periodic saves")
	cmd.Flags().String("journal", journal.DefaultPath, "SQLite decision journal (empty disables it)")
	cmd.Flags().Bool("open-links", true, "open each record's URL in the browser before the prompt")
	cmd.Flags().String("focus-app", "", "application to re-activate after opening a link (macOS)")
}

func reviewConfig(cmd *cobra.Command, section string) types.ReviewConfig {
	return types.ReviewConfig{
		InputPath:   stringSetting(cmd, section, "input"),
		OutputPath:  stringSetting(cmd, section, "output"),
		KeyField:    stringSetting(cmd, section, "key_field"),
		SaveEvery:   intSetting(cmd, section, "save_every"),
		JournalPath: stringSetting(cmd, section, "journal"),
		OpenLinks:   boolSetting(cmd, section, "open_links"),
		FocusApp:    stringSetting(cmd, section, "focus_app"),
	}
}

// reviewRun is one configured run of a review pass.
type reviewRun struct {
	cfg     types.ReviewConfig
	pass    review.Pass
	hint    string
	session *review.Session
	tracker *progress.Tracker
	output  string
}

// linkHooks returns the open-link hook when enabled.
func linkHooks(cfg types.ReviewConfig) []review.ActionHook {
	if !cfg.OpenLinks {
		return nil
	}
	return []review.ActionHook{terminal.OpenHook(terminal.NewOpener(cfg.FocusApp), cfg.KeyField)}
}

// run drives the loop against the terminal and reports how it ended.
func (r *reviewRun) run(cmd *cobra.Command, out io.Writer) (review.Result, error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := &review.Loop{
		Pass:      r.pass,
		Tracker:   r.tracker,
		SaveEvery: r.cfg.SaveEvery,
		Logger:    logger,
		Out:       out,
		Persister: review.PersistFunc(func(records []*types.Record) error {
			return store.Save(r.output, records)
		}),
	}

	if j := openJournal(r.cfg.JournalPath, out); j != nil {
		defer j.Close()
		id, err := j.StartSession(ctx, r.pass.Name, r.cfg.InputPath)
		if err != nil {
			logger.Warn("starting journal session failed", zap.Error(err))
			fmt.Fprintf(out, "warning: decisions will not be journaled: %v\n", err)
		} else {
			loop.Recorder = j
			loop.SessionID = id
		}
	}

	src := terminal.NewKeySource(os.Stdin, out)
	loop.Source = src
	loop.Presenter = &terminal.Presenter{Out: out, Hint: r.hint, Clear: src.Interactive()}

	logger.Info("review started",
		zap.String("pass", r.pass.Name),
		zap.String("input", r.cfg.InputPath),
		zap.String("output", r.output),
		zap.Int("pending", len(r.session.Pending)))

	res := loop.Run(ctx, r.session)
	if res.SaveErr != nil {
		return res, fmt.Errorf("saving %s: %w", r.output, res.SaveErr)
	}
	fmt.Fprintf(out, "Session %s: committed=%d skipped=%d undone=%d\n",
		res.Status, res.Committed, res.Skipped, res.Undone)
	return res, nil
}

// openJournal opens the decision journal. Failures are warnings.
func openJournal(path string, out io.Writer) *journal.Journal {
	if path == "" {
		return nil
	}
	j, err := journal.Open(path)
	if err != nil {
		logger.Warn("opening journal failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(out, "warning: decisions will not be journaled: %v\n", err)
		return nil
	}
	return j
}
