// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// Report is the on-disk record of one extraction run: what was asked for
// and what came out.
type Report struct {
	RunID  string       `yaml:"run_id"`
	Input  ReportInput  `yaml:"input"`
	Output ReportOutput `yaml:"output"`
	Filter ReportFilter `yaml:"filter"`
	Counts ReportCounts `yaml:"counts"`
	Timing ReportTiming `yaml:"timing"`
	Error  string       `yaml:"error,omitempty"`
}

// ReportInput describes the input file.
type ReportInput struct {
	Path    string `yaml:"path"`
	Size    int64  `yaml:"size"`
	Framing string `yaml:"framing,omitempty"`
}

// ReportOutput describes the written file.
type ReportOutput struct {
	Path   string   `yaml:"path"`
	Format string   `yaml:"format,omitempty"`
	Fields []string `yaml:"fields"`
}

// ReportFilter stores the selection settings in a serializable form.
type ReportFilter struct {
	StartDate    string   `yaml:"start_date,omitempty"`
	EndDate      string   `yaml:"end_date,omitempty"`
	CoarseMonth  bool     `yaml:"coarse_month,omitempty"`
	Keywords     []string `yaml:"keywords,omitempty"`
	CountryCodes []string `yaml:"country_codes,omitempty"`
	Regions      []string `yaml:"regions,omitempty"`
}

// ReportCounts stores the record counts and match rate.
type ReportCounts struct {
	Processed int     `yaml:"processed"`
	Matched   int     `yaml:"matched"`
	Skipped   int     `yaml:"skipped_malformed"`
	RatePct   float64 `yaml:"match_rate_pct"`
}

// ReportTiming stores when the run started and how long it took.
type ReportTiming struct {
	Started  time.Time `yaml:"started"`
	Duration string    `yaml:"duration"`
}

// NewReport assembles a report from the run configuration, its summary and
// the error it ended with, if any.
func NewReport(cfg types.ExtractConfig, s Summary, runErr error) Report {
	r := Report{
		RunID: s.RunID,
		Input: ReportInput{Path: s.Input, Size: s.InputSize, Framing: string(s.Framing)},
		Output: ReportOutput{
			Path:   s.Output,
			Format: string(s.Format),
			Fields: cfg.Fields,
		},
		Filter: ReportFilter{
			StartDate:    cfg.Filter.StartDate,
			EndDate:      cfg.Filter.EndDate,
			CoarseMonth:  cfg.Filter.CoarseMonthFilter,
			Keywords:     cfg.Filter.Keywords,
			CountryCodes: cfg.Filter.CountryCodes,
		},
		Counts: ReportCounts{
			Processed: s.Processed,
			Matched:   s.Matched,
			Skipped:   s.Skipped,
			RatePct:   s.Rate(),
		},
		Timing: ReportTiming{
			Started:  s.Started.UTC(),
			Duration: s.Duration.Round(time.Millisecond).String(),
		},
	}
	for _, reg := range cfg.Filter.Regions {
		r.Filter.Regions = append(r.Filter.Regions, reg.Name)
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}

// WriteReport saves r as YAML, creating parent directories as needed.
func WriteReport(path string, r Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously written report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
