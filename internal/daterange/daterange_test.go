// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"utc", "Sun Jan 21 21:37:57 +0000 2018", Date{2018, time.January, 21}, false},
		{"positive offset rolls back a day", "Mon Jan 22 00:30:00 +0100 2018", Date{2018, time.January, 21}, false},
		{"negative offset rolls forward a day", "Sun Jan 21 23:30:00 -0500 2018", Date{2018, time.January, 22}, false},
		{"year boundary", "Mon Jan 01 00:10:00 +0200 2018", Date{2017, time.December, 31}, false},
		{"surrounding whitespace", "  Wed May 17 10:00:00 +0000 2017 ", Date{2017, time.May, 17}, false},
		{"iso format", "2018-01-21T21:37:57Z", Date{}, true},
		{"empty", "", Date{}, true},
		{"bad month", "Sun Foo 21 21:37:57 +0000 2018", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := Date{2017, time.June, 19}
	for _, s := range []string{"2017-06-19", "2017.06.19", "2017/06/19", " 2017-06-19 "} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseDate("19/06/2017")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	d := Date{2018, time.January, 21}
	tests := []struct {
		ts   string
		want Ordering
	}{
		{"Sat Jan 20 23:59:59 +0000 2018", Less},
		{"Sun Jan 21 00:00:00 +0000 2018", Equal},
		{"Sun Jan 21 23:59:59 +0000 2018", Equal},
		{"Mon Jan 22 00:00:00 +0000 2018", Greater},
		{"garbage", Failure},
	}
	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.ts, d))
		})
	}
}

func TestRangeContainsInclusive(t *testing.T) {
	r, err := NewRange("2018-01-18", "2018-01-20")
	require.NoError(t, err)

	tests := []struct {
		name string
		ts   string
		want bool
	}{
		{"day before start", "Wed Jan 17 12:00:00 +0000 2018", false},
		{"equal to start", "Thu Jan 18 00:00:00 +0000 2018", true},
		{"inside", "Fri Jan 19 12:00:00 +0000 2018", true},
		{"equal to end", "Sat Jan 20 23:59:59 +0000 2018", true},
		{"day after end", "Sun Jan 21 21:37:57 +0000 2018", false},
		{"unparseable", "not a time", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.ts))
		})
	}
}

func TestNewRange(t *testing.T) {
	_, err := NewRange("2018-01-20", "2018-01-18")
	assert.ErrorContains(t, err, "before start date")

	_, err = NewRange("bad", "2018-01-18")
	assert.ErrorContains(t, err, "start date")

	_, err = NewRange("2018-01-18", "bad")
	assert.ErrorContains(t, err, "end date")

	r, err := NewRange("2018-01-18", "2018-01-18")
	require.NoError(t, err)
	assert.Equal(t, r.Start, r.End)
}

func TestCoarseMatch(t *testing.T) {
	oneMonth := Range{Start: Date{2017, time.May, 1}, End: Date{2017, time.May, 31}}
	assert.True(t, oneMonth.SingleMonth())
	assert.True(t, oneMonth.CoarseMatch("Wed May 17 10:00:00 +0000 2017"))
	assert.False(t, oneMonth.CoarseMatch("Thu Jun 01 10:00:00 +0000 2017"))

	spanning := Range{Start: Date{2017, time.May, 30}, End: Date{2017, time.June, 2}}
	assert.False(t, spanning.SingleMonth())
	assert.True(t, spanning.CoarseMatch("Thu Jun 01 10:00:00 +0000 2017"))
	assert.True(t, spanning.Contains("Thu Jun 01 10:00:00 +0000 2017"))
}

func TestDateHelpers(t *testing.T) {
	d := Date{2016, time.February, 28}
	assert.Equal(t, "2016-02-28", d.String())
	assert.True(t, d.Before(Date{2016, time.February, 29}))
	assert.True(t, d.Before(Date{2017, time.January, 1}))
	assert.False(t, d.Before(d))
	assert.Equal(t, d, DateOf(time.Date(2016, time.February, 28, 23, 59, 0, 0, time.UTC)))
}
