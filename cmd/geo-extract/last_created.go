// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/geo-extract/internal/tail"
	"github.com/pdiddy/geo-extract/pkg/types"
)

var lastCreatedCmd = &cobra.Command{
	Use:   "last-created <input>",
	Short: "Print the timestamp of the last record in a JSON dump",
	Long: `Last-created scans the input backwards and prints the value of the
timestamp field (created_at by default) from the last record that has it.
Use it to find where an export ends before choosing a date range.`,
	Args: cobra.ExactArgs(1),
	RunE: runLastCreated,
}

func init() {
	lastCreatedCmd.Flags().String("field", types.DefaultTimestampField, "field to print")
	addChunkFlags(lastCreatedCmd)

	rootCmd.AddCommand(lastCreatedCmd)
}

func runLastCreated(cmd *cobra.Command, args []string) error {
	cfg, err := tailConfig(cmd)
	if err != nil {
		return err
	}
	field, _ := cmd.Flags().GetString("field")

	ctx, stop := interruptContext()
	defer stop()

	rec, ok, stats, err := tail.LastWithField(ctx, args[0], field, cfg)
	if err != nil {
		return err
	}
	if !ok {
		reportStats(os.Stderr, stats)
		return fmt.Errorf("no record with field %q in %s", field, args[0])
	}
	fmt.Println(rec.Text(field))
	return nil
}
