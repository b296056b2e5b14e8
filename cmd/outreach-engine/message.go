// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/personalize"
	"github.com/pdiddy/outreach-engine/internal/progress"
	"github.com/pdiddy/outreach-engine/internal/review"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/internal/terminal"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Stage personalised messages for profiles classified yes",
	Long: `Message walks every profile classified yes that has no processed status.
For each one it picks a random template, replaces the name placeholder with
the profile's derived first name, copies the result to the clipboard, and
opens the profile URL. Press right/y once the message is sent, left/n
to mark it not sent, s to stop.

Statuses are written back into the records (in place unless --output is
given). Profiles classified yes later are picked up on the next run.`,
	RunE: runMessage,
}

func init() {
	addReviewFlags(messageCmd, "dist/classified_data.json", "")
	messageCmd.Flags().String("templates", "default.db.json", "message templates, JSON or YAML {messages: [{content: ...}]}")
	messageCmd.Flags().String("placeholder", personalize.DefaultPlaceholder, "token replaced by the first name")
	rootCmd.AddCommand(messageCmd)
}

func messagingConfig(cmd *cobra.Command) types.MessagingConfig {
	cfg := types.MessagingConfig{
		ReviewConfig:  reviewConfig(cmd, "message"),
		TemplatesPath: stringSetting(cmd, "message", "templates"),
		Placeholder:   stringSetting(cmd, "message", "placeholder"),
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath
	}
	return cfg
}

func runMessage(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := messagingConfig(cmd)

	templates, err := personalize.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return err
	}
	records, err := store.Load(cfg.InputPath)
	if err != nil {
		return err
	}

	pending := review.MessagingPending(records, cfg.KeyField)
	if len(pending) == 0 {
		fmt.Fprintln(out, "No profiles classified yes are waiting for a message.")
		return nil
	}

	var candidates []*types.Record
	for _, r := range records {
		if r.Classification() == types.ClassificationYes {
			candidates = append(candidates, r)
		}
	}
	fmt.Fprintf(out, "\nStarting messaging. %d of %d profiles classified yes still need a message.\n",
		len(pending), len(candidates))

	composer := &personalize.Composer{Templates: templates, Placeholder: cfg.Placeholder}
	hooks := append([]review.ActionHook{terminal.StageHook(composer, out)}, linkHooks(cfg.ReviewConfig)...)
	pass := review.MessagingPass(hooks...)
	tracker := progress.New(pass.Field, pass.Qualified...)
	tracker.Seed(records)
	tracker.SetTotal(len(candidates))

	r := &reviewRun{
		cfg:     cfg.ReviewConfig,
		pass:    pass,
		hint:    terminal.MessageHint,
		tracker: tracker,
		output:  cfg.OutputPath,
		session: &review.Session{
			Pending:  pending,
			Results:  records,
			KeyField: cfg.KeyField,
		},
	}
	res, err := r.run(cmd, out)
	if err != nil {
		return err
	}

	if res.Status == review.StatusCompleted {
		fmt.Fprintf(out, "Messaging complete. Statuses saved to %s\n", cfg.OutputPath)
	} else {
		fmt.Fprintf(out, "Progress saved to %s. Run message again to resume.\n", cfg.OutputPath)
	}
	return nil
}
