// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/container"
	"github.com/pdiddy/outreach-engine/internal/names"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Annotate records with name candidates",
	Long: `Names derives a display name for every record (the second line of its
profile text, else the first) and stores it with the person names found in
it under processed_data.name_info. The message pass reads these to address
each profile by first name.

Two backends are available: heuristic (capitalised words outside a stop
list) and container, which pipes {"text": ...} through an NER image run
with docker or podman and reads {"names": [...]} back.`,
	RunE: runNames,
}

func init() {
	namesCmd.Flags().String("input", "dist/classified_data.json", "JSON array of records")
	namesCmd.Flags().String("output", "", "annotated output (default: rewrite input)")
	namesCmd.Flags().String("backend", string(types.ExtractorHeuristic), "name extractor: heuristic or container")
	namesCmd.Flags().String("image", names.DefaultImage, "NER container image for the container backend")
	namesCmd.Flags().String("key-field", types.DefaultKeyField, "record field holding the unique key")
	namesCmd.Flags().StringSlice("stop-words", nil, "extra words the heuristic never treats as names")
	rootCmd.AddCommand(namesCmd)
}

func namesConfig(cmd *cobra.Command) types.NamesConfig {
	cfg := types.NamesConfig{
		InputPath:  stringSetting(cmd, "names", "input"),
		OutputPath: stringSetting(cmd, "names", "output"),
		Backend:    types.ExtractorBackend(stringSetting(cmd, "names", "backend")),
		Image:      stringSetting(cmd, "names", "image"),
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath
	}
	return cfg
}

func newExtractor(ctx context.Context, cmd *cobra.Command, cfg types.NamesConfig) (names.Extractor, error) {
	switch cfg.Backend {
	case types.ExtractorHeuristic, "":
		return names.Heuristic{Stop: sliceSetting(cmd, "names", "stop_words")}, nil
	case types.ExtractorContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug("container runtime detected", zap.String("runtime", rt.Name()))
		return names.NewContainerExtractor(ctx, rt, cfg.Image)
	}
	return nil, fmt.Errorf("unknown name extractor %q: use heuristic or container", cfg.Backend)
}

func runNames(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	cfg := namesConfig(cmd)
	keyField := stringSetting(cmd, "names", "key_field")

	records, err := store.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	ex, err := newExtractor(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	logger.Info("extracting names",
		zap.String("backend", string(cfg.Backend)),
		zap.String("input", cfg.InputPath),
		zap.Int("records", len(records)))

	summary := names.Annotate(ctx, records, ex, keyField, out)
	if err := store.Save(cfg.OutputPath, records); err != nil {
		return fmt.Errorf("saving %s: %w", cfg.OutputPath, err)
	}
	fmt.Fprintf(out, "Results saved to %s\n", cfg.OutputPath)

	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed name extraction", summary.Failed)
	}
	return nil
}
