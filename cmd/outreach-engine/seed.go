// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/partition"
	"github.com/pdiddy/outreach-engine/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Build review records from an exported username list",
	Long: `Seed reads a JSON array of exported records carrying a username and
writes one review record per distinct username with its profile URL. The
output is the input of classify.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("input", "data/usernames.json", "JSON array of records with a username field")
	seedCmd.Flags().String("output", "dist/scrape_data.json", "review records to write")
	seedCmd.Flags().String("base", partition.DefaultProfileBase, "profile URL prefix")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	input := stringSetting(cmd, "seed", "input")
	output := stringSetting(cmd, "seed", "output")
	base := stringSetting(cmd, "seed", "base")

	exported, err := store.Load(input)
	if err != nil {
		return err
	}
	records, dropped := partition.Seed(exported, base)
	if err := store.Save(output, records); err != nil {
		return fmt.Errorf("saving %s: %w", output, err)
	}
	if dropped > 0 {
		fmt.Fprintf(out, "warning: dropped %d record(s) without a username or repeated\n", dropped)
	}
	fmt.Fprintf(out, "Seeded %d profiles into %s\n", len(records), output)
	return nil
}
