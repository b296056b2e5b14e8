// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/progress"
	"github.com/pdiddy/outreach-engine/internal/review"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/internal/terminal"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify profiles as yes, no, or maybe",
	Long: `Classify presents each profile in the input that is not yet in the output,
opens its URL, and waits for one key: right/y yes, left/n no, up/m maybe,
o no but flagged for other campaigns, u undo, s stop and save.

Results are appended to the output file every few decisions and on exit.
Running classify again resumes with the first unclassified profile.`,
	RunE: runClassify,
}

func init() {
	addReviewFlags(classifyCmd, "dist/scrape_data.json", "dist/classified_data.json")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := reviewConfig(cmd, "classify")

	all, err := store.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	existing, err := store.LoadExisting(cfg.OutputPath)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Fprintf(out, "Resuming from existing output file: %s\n", cfg.OutputPath)
		fmt.Fprintf(out, "Loaded %d previously classified profiles.\n", len(existing))
	}

	pass := review.ClassificationPass(linkHooks(cfg)...)
	resume := store.PrepareResume(all, existing, cfg.KeyField, pass.Field)
	if resume.DroppedInput > 0 {
		fmt.Fprintf(out, "warning: dropped %d input records with a repeated %s\n", resume.DroppedInput, cfg.KeyField)
	}
	if resume.DroppedExisting > 0 {
		fmt.Fprintf(out, "warning: dropped %d output records with a repeated %s\n", resume.DroppedExisting, cfg.KeyField)
	}
	if resume.Carried > 0 {
		fmt.Fprintf(out, "Carried %d input profiles that were already classified.\n", resume.Carried)
	}
	if len(resume.Pending) == 0 {
		fmt.Fprintln(out, "All profiles from the input file have already been classified.")
		if resume.Carried > 0 || resume.DroppedExisting > 0 {
			return store.Save(cfg.OutputPath, resume.Results)
		}
		return nil
	}
	fmt.Fprintf(out, "\nStarting classification. Total to classify: %d\n", len(resume.Pending))

	tracker := progress.New(pass.Field, pass.Qualified...)
	tracker.Seed(resume.Results)
	tracker.SetTotal(len(resume.Results) + len(resume.Pending))

	r := &reviewRun{
		cfg:     cfg,
		pass:    pass,
		hint:    terminal.ClassifyHint,
		tracker: tracker,
		output:  cfg.OutputPath,
		session: &review.Session{
			Pending:  resume.Pending,
			Results:  resume.Results,
			KeyField: cfg.KeyField,
		},
	}
	res, err := r.run(cmd, out)
	if err != nil {
		return err
	}

	switch res.Status {
	case review.StatusCompleted:
		fmt.Fprintf(out, "Classification complete. All data saved to %s\n", cfg.OutputPath)
	default:
		fmt.Fprintf(out, "Progress saved to %s. Run classify again to resume.\n", cfg.OutputPath)
	}
	return nil
}
