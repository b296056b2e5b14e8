// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings resolve in order: an explicitly set flag, the config file or
// environment under section.key, then the flag default. The flag name is
// the key with underscores replaced by dashes.

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func fromConfig(cmd *cobra.Command, section, key string) bool {
	return !cmd.Flags().Changed(flagName(key)) && viper.IsSet(section+"."+key)
}

func stringSetting(cmd *cobra.Command, section, key string) string {
	if fromConfig(cmd, section, key) {
		return viper.GetString(section + "." + key)
	}
	v, _ := cmd.Flags().GetString(flagName(key))
	return v
}

func intSetting(cmd *cobra.Command, section, key string) int {
	if fromConfig(cmd, section, key) {
		return viper.GetInt(section + "." + key)
	}
	v, _ := cmd.Flags().GetInt(flagName(key))
	return v
}

func boolSetting(cmd *cobra.Command, section, key string) bool {
	if fromConfig(cmd, section, key) {
		return viper.GetBool(section + "." + key)
	}
	v, _ := cmd.Flags().GetBool(flagName(key))
	return v
}

func sliceSetting(cmd *cobra.Command, section, key string) []string {
	if fromConfig(cmd, section, key) {
		return viper.GetStringSlice(section + "." + key)
	}
	v, _ := cmd.Flags().GetStringSlice(flagName(key))
	return v
}
