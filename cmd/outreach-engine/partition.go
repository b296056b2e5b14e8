// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/partition"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Merge candidate profile lists and report duplicates",
	Long: `Partition reads the classified output, an optional new candidate file,
and any number of historical files or directories (.json, .txt, .md). URLs
are normalised and deduplicated. Profiles from the classified and input
files that are not classified no are written, one URL per line, to the
output; historical sources only count toward duplicate detection.

When duplicates are found the policy decides: skip drops every duplicated
URL, keep writes every copy, prompt asks on stdin.`,
	RunE: runPartition,
}

func init() {
	partitionCmd.Flags().String("classified", "dist/classified_data.json", "classified profiles JSON used for duplicate checks")
	partitionCmd.Flags().String("input", "", "additional candidate file to include in the output")
	partitionCmd.Flags().StringSlice("extra", []string{"data"}, "directories or files used as historical references")
	partitionCmd.Flags().String("output", "dist/combined_profiles.txt", "combined profile list")
	partitionCmd.Flags().String("report", "", "duplicate report, JSON or YAML by extension (default: next to output)")
	partitionCmd.Flags().String("policy", string(partition.PolicyPrompt), "duplicate policy: prompt, skip, or keep")
	partitionCmd.Flags().Bool("strict", false, "fail on missing or unreadable files")
	partitionCmd.Flags().Bool("stdout", false, "also print the combined list to stdout")
	rootCmd.AddCommand(partitionCmd)
}

func partitionConfig(cmd *cobra.Command) types.PartitionConfig {
	return types.PartitionConfig{
		ClassifiedPath: stringSetting(cmd, "partition", "classified"),
		InputPath:      stringSetting(cmd, "partition", "input"),
		Extra:          sliceSetting(cmd, "partition", "extra"),
		OutputPath:     stringSetting(cmd, "partition", "output"),
		ReportPath:     stringSetting(cmd, "partition", "report"),
		Policy:         stringSetting(cmd, "partition", "policy"),
		Strict:         boolSetting(cmd, "partition", "strict"),
	}
}

func runPartition(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := partitionConfig(cmd)

	res, err := partition.Run(cfg, promptResolver(os.Stdin, out), out)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		for _, p := range res.Kept {
			fmt.Fprintln(out, p.URL)
		}
	}
	return nil
}

// promptResolver asks the operator how to treat duplicates.
func promptResolver(in io.Reader, out io.Writer) partition.Resolver {
	return func(duplicates []partition.DuplicateRecord) partition.Policy {
		reader := bufio.NewReader(in)

		fmt.Fprintf(out, "\ndetected %d duplicate URLs.\n", len(duplicates))
		for i, d := range duplicates {
			if i >= 3 {
				fmt.Fprintf(out, " ... and %d more\n", len(duplicates)-i)
				break
			}
			fmt.Fprintf(out, " - %s (%s)\n", d.URL, strings.Join(d.AllSources, ", "))
		}
		fmt.Fprintln(out, "choose duplicate policy: [s]kip duplicates, [k]eep duplicates, [f]irst occurrence only (skip default)")

		for {
			fmt.Fprint(out, "> ")
			line, err := reader.ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "s", "skip", "":
				return partition.PolicySkip
			case "k", "keep":
				return partition.PolicyKeep
			case "f", "first":
				return partition.PolicyPrompt
			}
			if err != nil {
				return partition.PolicySkip
			}
			fmt.Fprintln(out, "please enter s, k, or f")
		}
	}
}
