// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/partition"
	"github.com/pdiddy/outreach-engine/internal/store"
)

var remainingCmd = &cobra.Command{
	Use:   "remaining",
	Short: "List commenters whose profile has not been parsed",
	Long: `Remaining compares the commenters in a comments export against the parsed
profiles and writes every commenter without a profile, once per username,
so the missing profiles can be collected.`,
	RunE: runRemaining,
}

func init() {
	remainingCmd.Flags().String("comments", "data/db/comments.json", "JSON array of comments with username and profileUrl")
	remainingCmd.Flags().String("profiles", "data/db/parsed_profiles/aggregated_profiles.json", "JSON array of parsed profiles")
	remainingCmd.Flags().String("output", "data/db/parsed_profiles/unparsed_profiles.json", "commenters without a parsed profile")
	remainingCmd.Flags().String("base", partition.DefaultProfileBase, "profile URL prefix for comments without a URL")
	rootCmd.AddCommand(remainingCmd)
}

func runRemaining(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	commentsPath := stringSetting(cmd, "remaining", "comments")
	profilesPath := stringSetting(cmd, "remaining", "profiles")
	output := stringSetting(cmd, "remaining", "output")

	comments, err := store.Load(commentsPath)
	if err != nil {
		return err
	}
	profiles, err := store.LoadExisting(profilesPath)
	if err != nil {
		return err
	}

	remaining := partition.Remaining(comments, profiles, stringSetting(cmd, "remaining", "base"))
	if err := store.Save(output, remaining); err != nil {
		return fmt.Errorf("saving %s: %w", output, err)
	}
	fmt.Fprintf(out, "Found %d unparsed profiles out of %d comments\n", len(remaining), len(comments))
	return nil
}
