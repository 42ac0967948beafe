// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the geo-extract CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the geo-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "geo-extract",
	Short: "Extract geo-tagged records from very large JSON dumps",
	Long: `geo-extract streams very large JSON record dumps, either one top-level
array or one object per line, and writes the records that match a date range
and a keyword, country or region predicate to a CSV or SQLite file.

The tail and last-created subcommands read records from the end of a dump
without scanning it from the start.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./geo-extract.yaml or ~/.config/geo-extract/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("geo-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "geo-extract"))
		}
	}

	viper.SetEnvPrefix("GEO_EXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// interruptContext returns a context that is cancelled on Ctrl-C, so a long
// scan stops at the next record or chunk boundary.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
