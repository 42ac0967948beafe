// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geo-extract/internal/tail"
	"github.com/pdiddy/geo-extract/pkg/types"
)

var tailCmd = &cobra.Command{
	Use:   "tail <input>",
	Short: "Show the last records of a JSON dump",
	Long: `Tail reads the input backwards in fixed-size chunks and prints the last
complete records, in file order, without scanning the file from the start.
It works on both top-level arrays and one-object-per-line files.

A record larger than chunk-size times max-buffer-chunks is skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().IntP("count", "n", 20, "number of records to show")
	addChunkFlags(tailCmd)
	tailCmd.Flags().Bool("full", false, "print every field, truncating long strings")
	tailCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	rootCmd.AddCommand(tailCmd)
}

func addChunkFlags(cmd *cobra.Command) {
	cmd.Flags().Int("chunk-size", types.DefaultChunkSize, "bytes read per backward step")
	cmd.Flags().Int("max-buffer-chunks", types.DefaultMaxBufferChunks, "largest record size, in chunks")
}

// tailConfig layers defaults, the "tail" section of the config file, and
// explicitly set flags.
func tailConfig(cmd *cobra.Command) (types.TailConfig, error) {
	cfg := types.DefaultTailConfig()
	if viper.IsSet("tail") {
		if err := viper.UnmarshalKey("tail", &cfg); err != nil {
			return cfg, fmt.Errorf("reading tail config: %w", err)
		}
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize, _ = cmd.Flags().GetInt("chunk-size")
	}
	if cmd.Flags().Changed("max-buffer-chunks") {
		cfg.MaxBufferChunks, _ = cmd.Flags().GetInt("max-buffer-chunks")
	}
	if cfg.ChunkSize <= 0 || cfg.MaxBufferChunks <= 0 {
		return cfg, fmt.Errorf("chunk-size and max-buffer-chunks must be positive")
	}
	return cfg, nil
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, err := tailConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("count")
	full, _ := cmd.Flags().GetBool("full")
	format, _ := cmd.Flags().GetString("format")

	ctx, stop := interruptContext()
	defer stop()

	recs, stats, err := tail.LastN(ctx, args[0], n, cfg)
	if err != nil {
		return err
	}
	reportStats(os.Stderr, stats)

	switch format {
	case "text":
		tail.Describe(os.Stdout, recs, full)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(yamlRecords(recs))
	}
	return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
}

// yamlRecords converts json.Number values so they encode as YAML numbers
// instead of strings.
func yamlRecords(recs []types.Record) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = yamlValue(map[string]any(r))
	}
	return out
}

func yamlValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = yamlValue(e)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = yamlValue(e)
		}
		return s
	}
	return v
}

func reportStats(w io.Writer, s tail.Stats) {
	fmt.Fprintf(w, "read %s of %s in %d chunks\n",
		humanize.Bytes(uint64(s.BytesRead)), humanize.Bytes(uint64(s.FileSize)), s.Chunks)
	if s.Malformed > 0 {
		fmt.Fprintf(w, "warning: skipped %d malformed record(s)\n", s.Malformed)
	}
	if s.Oversized > 0 {
		fmt.Fprintf(w, "warning: skipped %d record(s) larger than the buffer cap\n", s.Oversized)
	}
}
