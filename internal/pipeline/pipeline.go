// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a forward extraction run: it streams records from
// the input, applies the filter, writes matching rows to the sink, and
// reports progress and a final summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pdiddy/geo-extract/internal/extract"
	"github.com/pdiddy/geo-extract/internal/sink"
	"github.com/pdiddy/geo-extract/internal/stream"
	"github.com/pdiddy/geo-extract/pkg/types"
)

// ErrInputNotFound is returned when the input file does not exist. It
// matches os.ErrNotExist as well.
var ErrInputNotFound = fmt.Errorf("input file not found: %w", os.ErrNotExist)

// cancelCheckEvery is how many records pass between context checks.
const cancelCheckEvery = 1024

// Summary holds counts from an extraction run.
type Summary struct {
	RunID     string
	Input     string
	Output    string
	Format    types.OutputFormat
	Framing   stream.Framing
	InputSize int64
	Processed int
	Matched   int
	Skipped   int
	Started   time.Time
	Duration  time.Duration
}

// Rate returns the matched share of processed records as a percentage.
func (s Summary) Rate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return 100 * float64(s.Matched) / float64(s.Processed)
}

// Run extracts the records of cfg.Input selected by cfg.Filter into
// cfg.Output. Progress and the final summary go to w. Per-record problems
// are counted, never returned; a stream or sink failure aborts the run and
// the rows written so far stay in the output. The returned Summary is
// valid even when err is non-nil.
func Run(ctx context.Context, cfg types.ExtractConfig, w io.Writer) (summary Summary, err error) {
	summary = Summary{
		RunID:   uuid.NewString(),
		Input:   cfg.Input,
		Output:  cfg.Output,
		Started: time.Now(),
	}
	defer func() { summary.Duration = time.Since(summary.Started) }()

	if cfg.Input == "" || cfg.Output == "" {
		return summary, fmt.Errorf("input and output paths are required")
	}
	info, err := os.Stat(cfg.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return summary, fmt.Errorf("%w: %s", ErrInputNotFound, cfg.Input)
		}
		return summary, fmt.Errorf("checking input: %w", err)
	}
	if info.IsDir() {
		return summary, fmt.Errorf("input %s is a directory", cfg.Input)
	}
	summary.InputSize = info.Size()

	filter, err := extract.NewFilter(cfg)
	if err != nil {
		return summary, fmt.Errorf("configuring filter: %w", err)
	}
	extractor, err := extract.NewExtractor(cfg)
	if err != nil {
		return summary, fmt.Errorf("configuring fields: %w", err)
	}
	summary.Format, err = sink.InferFormat(cfg.Output, cfg.Format)
	if err != nil {
		return summary, err
	}

	src, err := stream.Open(cfg.Input)
	if err != nil {
		return summary, err
	}
	defer src.Close()
	summary.Framing = src.Framing()

	out, err := sink.Open(cfg.Output, summary.Format)
	if err != nil {
		return summary, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(w, "reading %s (%s, %s framing)\n", cfg.Input, humanize.Bytes(uint64(summary.InputSize)), summary.Framing)
	if r := filter.DateRange(); r != nil {
		fmt.Fprintf(w, "date range %s to %s\n", r.Start, r.End)
		if cfg.Filter.CoarseMonthFilter && !r.SingleMonth() {
			fmt.Fprintf(w, "warning: coarse month filter ignored, range spans more than one month\n")
		}
	}

	if err := out.WriteHeader(extractor.Header()); err != nil {
		return summary, err
	}

	progress := newProgress(cfg)
	for {
		if summary.Processed%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				summary.Skipped = src.Skipped()
				return summary, err
			}
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Skipped = src.Skipped()
			return summary, fmt.Errorf("reading %s after %d records: %w", cfg.Input, summary.Processed, err)
		}

		summary.Processed++
		if filter.Match(rec) {
			if err := out.WriteRow(extractor.Row(rec)); err != nil {
				return summary, err
			}
			summary.Matched++
		}
		progress.Do(func() {
			fmt.Fprintf(w, "processed %s records, matched %s\n",
				humanize.Comma(int64(summary.Processed)), humanize.Comma(int64(summary.Matched)))
		})
	}
	summary.Skipped = src.Skipped()

	fmt.Fprintf(w, "processed %s records, matched %s (%.2f%%), skipped %s malformed\n",
		humanize.Comma(int64(summary.Processed)), humanize.Comma(int64(summary.Matched)),
		summary.Rate(), humanize.Comma(int64(summary.Skipped)))
	fmt.Fprintf(w, "wrote %s (%s) in %s\n", cfg.Output, summary.Format, time.Since(summary.Started).Round(time.Millisecond))
	return summary, nil
}

func newProgress(cfg types.ExtractConfig) *rate.Sometimes {
	every := cfg.ProgressEvery
	if every <= 0 {
		every = types.DefaultProgressEvery
	}
	s := &rate.Sometimes{Every: every, Interval: cfg.ProgressInterval}
	// Sometimes always runs its first call; consume it here so lines land
	// on multiples of every.
	s.Do(func() {})
	return s
}
