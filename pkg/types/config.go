// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutputFormat selects the tabular sink.
type OutputFormat string

const (
	OutputCSV    OutputFormat = "csv"
	OutputSQLite OutputFormat = "sqlite"
)

// CoordinateStrategy names one representation in the coordinate precedence chain.
type CoordinateStrategy string

const (
	// StrategyDirect reads the root "coordinates" field, [lng, lat] order.
	StrategyDirect CoordinateStrategy = "direct"
	// StrategyGeo reads the root "geo" field, [lat, lng] order.
	StrategyGeo CoordinateStrategy = "geo"
	// StrategyPlaceBBox takes the centroid of "place.bounding_box".
	StrategyPlaceBBox CoordinateStrategy = "place_bbox"
	// StrategyBBox takes the centroid of the root "bounding_box".
	StrategyBBox CoordinateStrategy = "bbox"
)

// DefaultCoordinateChain is the precedence order used when none is configured.
var DefaultCoordinateChain = []CoordinateStrategy{
	StrategyDirect, StrategyGeo, StrategyPlaceBBox, StrategyBBox,
}

// FilterConfig holds the record selection predicates.
type FilterConfig struct {
	// StartDate and EndDate bound the closed date interval (YYYY-MM-DD,
	// YYYY.MM.DD or YYYY/MM/DD). Both empty disables the temporal predicate.
	StartDate string `json:"start_date" yaml:"start_date" mapstructure:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date" mapstructure:"end_date"`

	// TimestampField names the field holding the fixed-format timestamp
	// (default "created_at").
	TimestampField string `json:"timestamp_field" yaml:"timestamp_field" mapstructure:"timestamp_field"`

	// CoarseMonthFilter enables the month-abbreviation fast path. It only
	// takes effect when the date range lies within one calendar month.
	CoarseMonthFilter bool `json:"coarse_month_filter" yaml:"coarse_month_filter" mapstructure:"coarse_month_filter"`

	// Keywords are case-insensitive substrings searched in KeywordFields.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// KeywordFields names the fields searched for Keywords. The pseudo-field
	// "hashtags" searches the text derived from the hashtag field.
	KeywordFields []string `json:"keyword_fields" yaml:"keyword_fields" mapstructure:"keyword_fields"`

	// CountryCodes matches the "country_code" field exactly, ignoring case.
	CountryCodes []string `json:"country_codes" yaml:"country_codes" mapstructure:"country_codes"`

	// Regions are bounding boxes matched against the resolved coordinate.
	Regions []Region `json:"regions" yaml:"regions" mapstructure:"regions"`
}

// ExtractConfig holds settings for the forward filter-and-extract run.
type ExtractConfig struct {
	// Input is the path of the JSON array or newline-delimited JSON file.
	Input string `json:"input" yaml:"input" mapstructure:"input"`

	// Output is the path of the tabular file to write.
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// Format selects the sink: csv or sqlite. Empty infers from Output's extension.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Report is an optional path for the YAML run report.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`

	// Fields lists the output columns in order.
	Fields []string `json:"fields" yaml:"fields" mapstructure:"fields"`

	// HashtagField names the field holding hashtag objects (default "hashTags").
	HashtagField string `json:"hashtag_field" yaml:"hashtag_field" mapstructure:"hashtag_field"`

	// Coordinates is the coordinate precedence chain.
	Coordinates []CoordinateStrategy `json:"coordinates" yaml:"coordinates" mapstructure:"coordinates"`

	Filter FilterConfig `json:"filter" yaml:"filter" mapstructure:"filter"`

	// ProgressEvery emits a progress line every N records (default 1,000,000).
	ProgressEvery int `json:"progress_every" yaml:"progress_every" mapstructure:"progress_every"`

	// ProgressInterval additionally emits a progress line at most this often.
	ProgressInterval time.Duration `json:"progress_interval" yaml:"progress_interval" mapstructure:"progress_interval"`
}

// TailConfig holds settings for the backward tail scan.
type TailConfig struct {
	// ChunkSize is the number of bytes read per backward step (default 8192).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`

	// MaxBufferChunks caps the pending buffer at this multiple of ChunkSize
	// (default 20). A record larger than the cap is skipped.
	MaxBufferChunks int `json:"max_buffer_chunks" yaml:"max_buffer_chunks" mapstructure:"max_buffer_chunks"`
}

const (
	DefaultTimestampField  = "created_at"
	DefaultHashtagField    = "hashTags"
	DefaultProgressEvery   = 1_000_000
	DefaultChunkSize       = 8192
	DefaultMaxBufferChunks = 20
)

// DefaultFields is the column order of the UK tweet export.
var DefaultFields = []string{"coordinates", "text", "created_at", "lang", "hashTags", "place_type"}

// DefaultExtractConfig returns the settings that select tweets located in
// the United Kingdom.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		Fields:       append([]string(nil), DefaultFields...),
		HashtagField: DefaultHashtagField,
		Coordinates:  append([]CoordinateStrategy(nil), DefaultCoordinateChain...),
		Filter: FilterConfig{
			TimestampField: DefaultTimestampField,
			Keywords: []string{
				"UK", "UNITED KINGDOM", "ENGLAND", "SCOTLAND",
				"WALES", "NORTHERN IRELAND", "BRITAIN",
			},
			KeywordFields: []string{"country"},
			CountryCodes:  []string{"GB"},
		},
		ProgressEvery: DefaultProgressEvery,
	}
}

// DefaultTailConfig returns the backward scan defaults.
func DefaultTailConfig() TailConfig {
	return TailConfig{
		ChunkSize:       DefaultChunkSize,
		MaxBufferChunks: DefaultMaxBufferChunks,
	}
}
