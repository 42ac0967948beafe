// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/geo-extract/pkg/types"
)

func rec(t *testing.T, s string) types.Record {
	t.Helper()
	r, err := types.ParseRecord([]byte(s))
	require.NoError(t, err)
	return r
}

func TestCoordinatePrecedence(t *testing.T) {
	chain, err := NewCoordinateChain(nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"direct point object", `{"coordinates":{"type":"Point","coordinates":[-0.1278,51.5074]}}`, "51.5074,-0.1278", true},
		{"direct bare list", `{"coordinates":[-0.1278,51.5074]}`, "51.5074,-0.1278", true},
		{"direct as string", `{"coordinates":"[-0.1278, 51.5074]"}`, "51.5074,-0.1278", true},
		{"geo", `{"geo":{"type":"Point","coordinates":[51.5074,-0.1278]}}`, "51.5074,-0.1278", true},
		{"geo as string", `{"geo":"{\"coordinates\":[51.5,-0.1]}"}`, "51.5,-0.1", true},
		{"direct wins over geo", `{"coordinates":[1,2],"geo":{"coordinates":[10,20]}}`, "2,1", true},
		{"malformed direct falls through", `{"coordinates":"not json","geo":{"coordinates":[10,20]}}`, "10,20", true},
		{"place bbox centroid", `{"place":{"bounding_box":{"coordinates":[[[0,50],[2,50],[2,52],[0,52]]]}}}`, "51,1", true},
		{"root bbox centroid", `{"bounding_box":{"coordinates":[[[-1,50],[1,50],[1,52],[-1,52]]]}}`, "51,0", true},
		{"bbox as string", `{"bounding_box":"{\"coordinates\":[[[0,0],[2,2]]]}"}`, "1,1", true},
		{"place wins over root bbox", `{"place":{"bounding_box":{"coordinates":[[[0,0]]]}},"bounding_box":{"coordinates":[[[5,5]]]}}`, "0,0", true},
		{"out of range rejected", `{"coordinates":[10,95]}`, "", false},
		{"null coordinates", `{"coordinates":null}`, "", false},
		{"empty string", `{"coordinates":""}`, "", false},
		{"none present", `{"text":"hi"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := chain.Resolve(rec(t, tt.input))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, c.String())
			}
		})
	}
}

func TestCoordinateChainOrder(t *testing.T) {
	chain, err := NewCoordinateChain([]types.CoordinateStrategy{types.StrategyGeo, types.StrategyDirect})
	require.NoError(t, err)
	c, ok := chain.Resolve(rec(t, `{"coordinates":[1,2],"geo":{"coordinates":[10,20]}}`))
	require.True(t, ok)
	assert.Equal(t, "10,20", c.String())

	_, err = NewCoordinateChain([]types.CoordinateStrategy{"gps"})
	assert.ErrorContains(t, err, `unknown coordinate strategy "gps"`)
}

func TestHashtagText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two tags", `{"h":[{"text":"a"},{"text":"b"}]}`, "a b"},
		{"empty list", `{"h":[]}`, ""},
		{"empty string", `{"h":""}`, ""},
		{"null", `{"h":null}`, ""},
		{"json string", `{"h":"[{\"text\":\"brexit\"},{\"text\":\"london\"}]"}`, "brexit london"},
		{"blank tags dropped", `{"h":[{"text":"  "},{"text":" x "},{"indices":[1,2]}]}`, "x"},
		{"unparseable string", `{"h":"[{"}`, ""},
		{"not a list", `{"h":{"text":"a"}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := rec(t, tt.input).Value("h")
			assert.Equal(t, tt.want, HashtagText(v))
		})
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Twitter for iPhone",
		StripHTML(`<a href="http://twitter.com/download/iphone" rel="nofollow">Twitter for iPhone</a>`))
	assert.Equal(t, "Fish & Chips", StripHTML(`<b>Fish &amp; Chips</b>`))
	assert.Equal(t, "plain", StripHTML("plain"))
	assert.Equal(t, "", StripHTML(""))
}

func TestExtractorRow(t *testing.T) {
	e, err := NewExtractor(types.DefaultExtractConfig())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultFields, e.Header())

	r := rec(t, `{
		"coordinates": {"type":"Point","coordinates":[-0.1278,51.5074]},
		"text": "line one\nline two\r\nend",
		"created_at": "Sun Jan 21 21:37:57 +0000 2018",
		"lang": "en",
		"hashTags": [{"text":"a"},{"text":"b"}]
	}`)
	assert.Equal(t, []string{
		"51.5074,-0.1278",
		"line one line two  end",
		"Sun Jan 21 21:37:57 +0000 2018",
		"en",
		"a b",
		"",
	}, e.Row(r))
}

func TestExtractorFieldKinds(t *testing.T) {
	cfg := types.DefaultExtractConfig()
	cfg.Fields = []string{"id", "retweeted", "user.location", "source", "entities", "hashtags"}
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	r := rec(t, `{
		"id": 953074485411049472,
		"retweeted": false,
		"user": {"location": "Leeds,\nUK"},
		"source": "<a href=\"x\">Tweetbot</a>",
		"entities": {"urls": []},
		"hashTags": "[{\"text\":\"tag\"}]"
	}`)
	assert.Equal(t, []string{
		"953074485411049472",
		"false",
		"Leeds, UK",
		"Tweetbot",
		`{"urls":[]}`,
		"tag",
	}, e.Row(r))
}

func TestNewExtractorValidation(t *testing.T) {
	cfg := types.DefaultExtractConfig()
	cfg.Fields = nil
	_, err := NewExtractor(cfg)
	assert.Error(t, err)

	cfg.Fields = []string{"text", "text"}
	_, err = NewExtractor(cfg)
	assert.ErrorContains(t, err, "duplicate")
}

func TestFilterDateRange(t *testing.T) {
	cfg := types.ExtractConfig{Filter: types.FilterConfig{StartDate: "2018-01-18", EndDate: "2018-01-20"}}
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	assert.True(t, f.Match(rec(t, `{"created_at":"Fri Jan 19 12:00:00 +0000 2018"}`)))
	assert.True(t, f.Match(rec(t, `{"created_at":"Sat Jan 20 23:59:59 +0000 2018"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":"Sun Jan 21 21:37:57 +0000 2018"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":"garbage"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":12345}`)))
	assert.False(t, f.Match(rec(t, `{"text":"no timestamp"}`)))
}

func TestFilterCoarseMonth(t *testing.T) {
	cfg := types.ExtractConfig{Filter: types.FilterConfig{
		StartDate: "2017-05-01", EndDate: "2017-05-31", CoarseMonthFilter: true,
	}}
	f, err := NewFilter(cfg)
	require.NoError(t, err)
	assert.True(t, f.Match(rec(t, `{"created_at":"Wed May 17 10:00:00 +0000 2017"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":"Sat Jun 17 10:00:00 +0000 2017"}`)))
}

func TestFilterRelevance(t *testing.T) {
	cfg := types.DefaultExtractConfig()
	cfg.Filter.KeywordFields = []string{"country", "hashtags"}
	cfg.Filter.Regions = []types.Region{{Name: "london", MinLat: 51.28, MinLng: -0.51, MaxLat: 51.69, MaxLng: 0.33}}
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"country code", `{"country_code":"gb"}`, true},
		{"keyword in country", `{"country":"United Kingdom"}`, true},
		{"keyword in hashtags", `{"hashTags":[{"text":"scotland"}]}`, true},
		{"inside region", `{"coordinates":[-0.1278,51.5074]}`, true},
		{"other country", `{"country_code":"FR","country":"France"}`, false},
		{"outside region", `{"coordinates":[2.35,48.85]}`, false},
		{"empty", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(rec(t, tt.input)))
		})
	}
}

func TestFilterNoPredicates(t *testing.T) {
	f, err := NewFilter(types.ExtractConfig{})
	require.NoError(t, err)
	assert.Nil(t, f.DateRange())
	assert.True(t, f.Match(rec(t, `{}`)))
}

func TestFilterDateAndRelevanceCombined(t *testing.T) {
	cfg := types.DefaultExtractConfig()
	cfg.Filter.StartDate = "2018-01-21"
	cfg.Filter.EndDate = "2018-01-21"
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	assert.True(t, f.Match(rec(t, `{"created_at":"Sun Jan 21 21:37:57 +0000 2018","country_code":"GB"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":"Sun Jan 21 21:37:57 +0000 2018","country_code":"US"}`)))
	assert.False(t, f.Match(rec(t, `{"created_at":"Mon Jan 22 21:37:57 +0000 2018","country_code":"GB"}`)))
}

func TestNewFilterValidation(t *testing.T) {
	_, err := NewFilter(types.ExtractConfig{Filter: types.FilterConfig{StartDate: "2018-01-01"}})
	assert.ErrorContains(t, err, "together")

	_, err = NewFilter(types.ExtractConfig{Filter: types.FilterConfig{StartDate: "2018-02-01", EndDate: "2018-01-01"}})
	assert.ErrorContains(t, err, "before start date")

	_, err = NewFilter(types.ExtractConfig{Filter: types.FilterConfig{Keywords: []string{"UK"}}})
	assert.ErrorContains(t, err, "keyword fields")
}
