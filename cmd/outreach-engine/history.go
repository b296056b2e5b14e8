// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the decision journal (sessions, list, latest, export)",
	Long: `History reads the SQLite journal that both review passes write. Every
committed decision and every undo is recorded with its session, the
previous value, and a timestamp.`,
}

// --- sessions subcommand ---

var historySessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List review sessions with decision counts",
	RunE:  runHistorySessions,
}

func runHistorySessions(cmd *cobra.Command, args []string) error {
	j, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	pass, _ := cmd.Flags().GetString("pass")
	sessions, err := j.Sessions(cmd.Context(), pass)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(sessions)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tPASS\tSTARTED\tDECISIONS\tUNDOS\tINPUT")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, s.Pass, s.StartedAt.Local().Format(time.DateTime), s.Decisions, s.Undos, s.Input)
	}
	return tw.Flush()
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled decisions in order",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	j, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(cmd.Context(), filterFromFlags(cmd))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No decisions match.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPASS\tKEY\tVALUE\tPREVIOUS\tUNDO")
	for _, e := range entries {
		undo := ""
		if e.Undo {
			undo = "undo"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Pass, e.Key, e.Value, e.Previous, undo)
	}
	return tw.Flush()
}

// --- latest subcommand ---

var historyLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Replay the journal and print each record's final value",
	Long: `Latest replays every decision of a pass, applying undos, and prints the
value each record key ended with. It can rebuild the state of a pass when
an output file was lost.`,
	RunE: runHistoryLatest,
}

func runHistoryLatest(cmd *cobra.Command, args []string) error {
	j, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	pass, _ := cmd.Flags().GetString("pass")
	latest, err := j.Latest(cmd.Context(), pass)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(latest)
	}
	keys := make([]string, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s\t%s\n", latest[k], k)
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journaled decisions as YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	j, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	format, _ := cmd.Flags().GetString("format")
	return j.Export(cmd.Context(), filterFromFlags(cmd), format, os.Stdout)
}

// --- shared helpers ---

func openHistory(cmd *cobra.Command) (*journal.Journal, error) {
	path := stringSetting(cmd, "history", "journal")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	return journal.Open(path)
}

func filterFromFlags(cmd *cobra.Command) journal.Filter {
	session, _ := cmd.Flags().GetString("session")
	pass, _ := cmd.Flags().GetString("pass")
	key, _ := cmd.Flags().GetString("key")
	limit, _ := cmd.Flags().GetInt("limit")
	return journal.Filter{Session: session, Pass: pass, Key: key, Limit: limit}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.PersistentFlags().String("journal", journal.DefaultPath, "SQLite decision journal")
	historyCmd.PersistentFlags().String("pass", "", "filter by pass: classify or message")

	historySessionsCmd.Flags().Bool("json", false, "output sessions as JSON")

	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("session", "", "filter by session ID")
		c.Flags().String("key", "", "filter by record key")
		c.Flags().Int("limit", 0, "maximum decisions (0 = all)")
	}
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyLatestCmd.Flags().Bool("json", false, "output as a JSON object")

	historyCmd.AddCommand(historySessionsCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyLatestCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
