// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geo-extract/internal/pipeline"
	"github.com/pdiddy/geo-extract/internal/region"
	"github.com/pdiddy/geo-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input> <output>",
	Short: "Filter a JSON dump and write matching records as rows",
	Long: `Extract streams every record of the input dump from the front, keeps the
records inside the date range that also match a keyword, country code or
region, and writes the configured fields of each one as a row.

Without flags or a config file the defaults select tweets located in the
United Kingdom: country code GB, or a UK keyword in the country field.
The output format follows the file extension (.db or .sqlite for SQLite,
anything else CSV) unless --format is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func addExtractFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("start-date", "", "first day of the date range (YYYY-MM-DD)")
	f.String("end-date", "", "last day of the date range (YYYY-MM-DD)")
	f.String("timestamp-field", types.DefaultTimestampField, "field holding the record timestamp")
	f.Bool("coarse-month", false, "reject records by month name before parsing (single-month ranges only)")
	f.StringSlice("keywords", nil, "case-insensitive keywords (comma-separated)")
	f.StringSlice("keyword-fields", nil, "fields searched for keywords; \"hashtags\" searches the hashtag text")
	f.StringSlice("country-codes", nil, "country codes matched against country_code (comma-separated)")
	f.String("regions", "", "YAML file with named bounding boxes under a regions key")
	f.StringSlice("fields", nil, "output columns in order (comma-separated)")
	f.StringSlice("coordinates", nil, "coordinate precedence: direct, geo, place_bbox, bbox")
	f.String("format", "", "output format: csv or sqlite (default from extension)")
	f.String("report", "", "write a YAML run report to this path")
	f.Int("progress-every", types.DefaultProgressEvery, "print progress every N records")
	f.Duration("progress-interval", 0, "also print progress at most this often (e.g. 30s)")
	f.Bool("quiet", false, "suppress progress output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(cmd, args)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		w = io.Discard
	}

	ctx, stop := interruptContext()
	defer stop()

	summary, runErr := pipeline.Run(ctx, cfg, w)
	if cfg.Report != "" {
		if err := pipeline.WriteReport(cfg.Report, pipeline.NewReport(cfg, summary, runErr)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing report: %v\n", err)
		}
	}
	return runErr
}

// extractConfig layers defaults, the "extract" section of the config file,
// and explicitly set flags, in that order.
func extractConfig(cmd *cobra.Command, args []string) (types.ExtractConfig, error) {
	cfg := types.DefaultExtractConfig()
	if viper.IsSet("extract") {
		clearConfiguredLists(&cfg)
		if err := viper.UnmarshalKey("extract", &cfg); err != nil {
			return cfg, fmt.Errorf("reading extract config: %w", err)
		}
	}
	cfg.Input = args[0]
	cfg.Output = args[1]

	flags := cmd.Flags()
	if flags.Changed("start-date") {
		cfg.Filter.StartDate, _ = flags.GetString("start-date")
	}
	if flags.Changed("end-date") {
		cfg.Filter.EndDate, _ = flags.GetString("end-date")
	}
	if flags.Changed("timestamp-field") {
		cfg.Filter.TimestampField, _ = flags.GetString("timestamp-field")
	}
	if flags.Changed("coarse-month") {
		cfg.Filter.CoarseMonthFilter, _ = flags.GetBool("coarse-month")
	}
	if flags.Changed("keywords") {
		cfg.Filter.Keywords, _ = flags.GetStringSlice("keywords")
	}
	if flags.Changed("keyword-fields") {
		cfg.Filter.KeywordFields, _ = flags.GetStringSlice("keyword-fields")
	}
	if flags.Changed("country-codes") {
		cfg.Filter.CountryCodes, _ = flags.GetStringSlice("country-codes")
	}
	if flags.Changed("fields") {
		cfg.Fields, _ = flags.GetStringSlice("fields")
	}
	if flags.Changed("coordinates") {
		names, _ := flags.GetStringSlice("coordinates")
		cfg.Coordinates = nil
		for _, n := range names {
			cfg.Coordinates = append(cfg.Coordinates, types.CoordinateStrategy(n))
		}
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		cfg.Format = types.OutputFormat(format)
	}
	if flags.Changed("report") {
		cfg.Report, _ = flags.GetString("report")
	}
	if flags.Changed("progress-every") {
		cfg.ProgressEvery, _ = flags.GetInt("progress-every")
	}
	if flags.Changed("progress-interval") {
		cfg.ProgressInterval, _ = flags.GetDuration("progress-interval")
	}
	if flags.Changed("regions") {
		path, _ := flags.GetString("regions")
		regions, err := region.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Filter.Regions = regions
	}
	return cfg, nil
}

// clearConfiguredLists empties every default list the config file sets.
// Decoding into a non-nil slice overwrites it element by element, so a
// shorter list from the file would otherwise keep the default's tail.
func clearConfiguredLists(cfg *types.ExtractConfig) {
	lists := map[string]*[]string{
		"extract.fields":                &cfg.Fields,
		"extract.filter.keywords":       &cfg.Filter.Keywords,
		"extract.filter.keyword_fields": &cfg.Filter.KeywordFields,
		"extract.filter.country_codes":  &cfg.Filter.CountryCodes,
	}
	for key, list := range lists {
		if viper.IsSet(key) {
			*list = nil
		}
	}
	if viper.IsSet("extract.coordinates") {
		cfg.Coordinates = nil
	}
}
