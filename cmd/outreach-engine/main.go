// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the outreach-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; commands log through it.
var logger = zap.NewNop()

// rootCmd is the base command for the outreach-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "outreach-engine",
	Short: "Manual review tooling for social-media outreach",
	Long: `outreach-engine supports a social-media outreach workflow. Candidate
profiles are seeded and partitioned into a review list, classified by hand
(yes, no, maybe), annotated with name candidates, and messaged one by one
with a personalised text staged on the clipboard.

Both review passes are resumable: progress is saved every few decisions and
on exit, and a later run continues where the previous one stopped. Every
decision is also journaled to SQLite and can be queried with history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := logging.New(verbose || viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./outreach-engine.yaml or ~/.config/outreach-engine/outreach-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("outreach-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "outreach-engine"))
		}
	}

	viper.SetEnvPrefix("OUTREACH_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
