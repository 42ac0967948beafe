// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract decides which records are selected and projects each
// selected record onto a fixed list of output columns.
package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/geo-extract/internal/daterange"
	"github.com/pdiddy/geo-extract/internal/region"
	"github.com/pdiddy/geo-extract/pkg/types"
)

// CountryCodeField holds the two-letter country code compared against
// FilterConfig.CountryCodes.
const CountryCodeField = "country_code"

// Filter selects records. A record is selected when it satisfies the date
// range (if one is configured) and at least one of the relevance
// predicates (if any are configured): keyword, country code or region.
type Filter struct {
	dates    *daterange.Range
	coarse   bool
	tsField  string
	keywords []string
	kwFields []string
	codes    map[string]bool
	regions  *region.Index
	coords   CoordinateChain
	hashtags string
}

// NewFilter validates cfg and builds a Filter.
func NewFilter(cfg types.ExtractConfig) (*Filter, error) {
	fc := cfg.Filter
	f := &Filter{
		coarse:   fc.CoarseMonthFilter,
		tsField:  fc.TimestampField,
		kwFields: fc.KeywordFields,
		hashtags: cfg.HashtagField,
	}
	if f.tsField == "" {
		f.tsField = types.DefaultTimestampField
	}
	if f.hashtags == "" {
		f.hashtags = types.DefaultHashtagField
	}

	switch {
	case fc.StartDate != "" && fc.EndDate != "":
		r, err := daterange.NewRange(fc.StartDate, fc.EndDate)
		if err != nil {
			return nil, err
		}
		f.dates = &r
	case fc.StartDate != "" || fc.EndDate != "":
		return nil, fmt.Errorf("start date and end date must be given together")
	}

	for _, k := range fc.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			f.keywords = append(f.keywords, strings.ToUpper(k))
		}
	}
	if len(f.keywords) > 0 && len(f.kwFields) == 0 {
		return nil, fmt.Errorf("keywords given without keyword fields")
	}

	for _, c := range fc.CountryCodes {
		if c = strings.TrimSpace(c); c != "" {
			if f.codes == nil {
				f.codes = make(map[string]bool)
			}
			f.codes[strings.ToUpper(c)] = true
		}
	}

	if len(fc.Regions) > 0 {
		idx, err := region.NewIndex(fc.Regions)
		if err != nil {
			return nil, err
		}
		chain, err := NewCoordinateChain(cfg.Coordinates)
		if err != nil {
			return nil, err
		}
		f.regions = idx
		f.coords = chain
	}
	return f, nil
}

// DateRange returns the configured range, or nil when there is none.
func (f *Filter) DateRange() *daterange.Range { return f.dates }

// Match reports whether rec is selected.
func (f *Filter) Match(rec types.Record) bool {
	return f.MatchDate(rec) && f.Relevant(rec)
}

// MatchDate applies the temporal predicate. A record without a string
// timestamp, or with one that does not parse, is never in range.
func (f *Filter) MatchDate(rec types.Record) bool {
	if f.dates == nil {
		return true
	}
	v, ok := lookup(rec, f.tsField)
	if !ok {
		return false
	}
	ts, ok := v.(string)
	if !ok {
		return false
	}
	if f.coarse && !f.dates.CoarseMatch(ts) {
		return false
	}
	return f.dates.Contains(ts)
}

// Relevant applies the relevance predicates, OR-ed together. With none
// configured every record is relevant.
func (f *Filter) Relevant(rec types.Record) bool {
	if len(f.keywords) == 0 && f.codes == nil && f.regions == nil {
		return true
	}
	return f.matchCountry(rec) || f.matchKeywords(rec) || f.matchRegion(rec)
}

func (f *Filter) matchCountry(rec types.Record) bool {
	if f.codes == nil {
		return false
	}
	code, ok := rec.String(CountryCodeField)
	if !ok {
		return false
	}
	return f.codes[strings.ToUpper(strings.TrimSpace(code))]
}

func (f *Filter) matchKeywords(rec types.Record) bool {
	if len(f.keywords) == 0 {
		return false
	}
	for _, field := range f.kwFields {
		text := strings.ToUpper(f.fieldText(rec, field))
		if text == "" {
			continue
		}
		for _, k := range f.keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
	}
	return false
}

func (f *Filter) fieldText(rec types.Record, field string) string {
	if field == HashtagsField || field == f.hashtags {
		v, _ := rec.Value(f.hashtags)
		return HashtagText(v)
	}
	v, ok := lookup(rec, field)
	if !ok {
		return ""
	}
	return types.FormatValue(v)
}

func (f *Filter) matchRegion(rec types.Record) bool {
	if f.regions == nil {
		return false
	}
	c, ok := f.coords.Resolve(rec)
	if !ok {
		return false
	}
	return f.regions.Contains(c)
}
