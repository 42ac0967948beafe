// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// SourceField is stripped of its HTML anchor markup on output.
const SourceField = "source"

// Extractor projects records onto the configured output columns.
type Extractor struct {
	fields   []string
	coords   CoordinateChain
	hashtags string
}

// NewExtractor builds an Extractor from cfg. Fields must be non-empty and
// free of duplicates.
func NewExtractor(cfg types.ExtractConfig) (*Extractor, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("no output fields configured")
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if strings.TrimSpace(f) == "" {
			return nil, fmt.Errorf("empty output field name")
		}
		if seen[f] {
			return nil, fmt.Errorf("duplicate output field %q", f)
		}
		seen[f] = true
	}
	chain, err := NewCoordinateChain(cfg.Coordinates)
	if err != nil {
		return nil, err
	}
	hashtags := cfg.HashtagField
	if hashtags == "" {
		hashtags = types.DefaultHashtagField
	}
	return &Extractor{
		fields:   append([]string(nil), cfg.Fields...),
		coords:   chain,
		hashtags: hashtags,
	}, nil
}

// Header returns the column names in output order.
func (e *Extractor) Header() []string {
	return append([]string(nil), e.fields...)
}

// Row renders one output row, one cell per configured field.
func (e *Extractor) Row(rec types.Record) []string {
	row := make([]string, len(e.fields))
	for i, f := range e.fields {
		row[i] = e.Field(rec, f)
	}
	return row
}

// Field renders a single column of rec. Missing values yield "".
//
//   - "coordinates" is the resolved point as "lat,lng".
//   - The hashtag field (or "hashtags") is the space-joined tag text.
//   - "source" has its HTML markup removed.
//   - Anything else is the value's flat text. Dotted names reach into
//     nested objects.
//
// Every cell is kept on a single line.
func (e *Extractor) Field(rec types.Record, name string) string {
	switch {
	case name == "coordinates":
		c, ok := e.coords.Resolve(rec)
		if !ok {
			return ""
		}
		return c.String()
	case name == e.hashtags || name == HashtagsField:
		v, _ := rec.Value(e.hashtags)
		return HashtagText(v)
	case name == SourceField:
		return SingleLine(StripHTML(rec.Text(SourceField)))
	}
	v, ok := lookup(rec, name)
	if !ok {
		return ""
	}
	return SingleLine(types.FormatValue(v))
}
