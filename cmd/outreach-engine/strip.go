// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/htmlstrip"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Sanitise captured error pages for debugging",
	Long: `Strip reads every error_page_*.html in the errors directory, blanks all
attribute values, removes style and script bodies, and minifies the
result into stripped_<name>.html. Pages already stripped are skipped.`,
	RunE: runStrip,
}

func init() {
	stripCmd.Flags().String("errors-dir", "errors", "directory holding captured error pages")
	stripCmd.Flags().String("output-dir", "", "output directory (default: <errors-dir>/"+htmlstrip.OutputSubdir+")")
	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) error {
	cfg := types.StripConfig{
		ErrorsDir: stringSetting(cmd, "strip", "errors_dir"),
		OutputDir: stringSetting(cmd, "strip", "output_dir"),
	}

	result, err := htmlstrip.StripDir(cfg.ErrorsDir, cfg.OutputDir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed", result.Failed)
	}
	return nil
}
