// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package daterange parses the fixed-width record timestamp format
// ("Sun Jan 21 21:37:57 +0000 2018"), normalizes it to a UTC calendar date,
// and tests containment in a closed date interval.
package daterange

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the record timestamp format: weekday, month, zero-padded
// day, time of day, numeric UTC offset, and four-digit year.
const TimestampLayout = "Mon Jan 02 15:04:05 -0700 2006"

// dateLayouts are the accepted forms of a filter boundary date.
var dateLayouts = []string{"2006-01-02", "2006.01.02", "2006/01/02"}

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d falls on an earlier day than o.
func (d Date) Before(o Date) bool { return d.cmp(o) < 0 }

func (d Date) cmp(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// ParseTimestamp parses a record timestamp and returns its UTC calendar date.
// The time of day is discarded after UTC normalization.
func ParseTimestamp(s string) (Date, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return DateOf(t.UTC()), nil
}

// ParseDate parses a filter boundary in YYYY-MM-DD, YYYY.MM.DD or YYYY/MM/DD form.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// Ordering is the result of comparing a timestamp to a date.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
	// Failure means the timestamp could not be parsed.
	Failure Ordering = 99
)

// String returns a short name for the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}
	return "failure"
}

// Compare orders the UTC date of timestamp ts against d.
func Compare(ts string, d Date) Ordering {
	got, err := ParseTimestamp(ts)
	if err != nil {
		return Failure
	}
	return Ordering(got.cmp(d))
}

// Range is a closed interval of calendar dates.
type Range struct {
	Start Date
	End   Date
}

// NewRange parses the boundary strings and checks start <= end.
func NewRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, fmt.Errorf("start date: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", e, s)
	}
	return Range{Start: s, End: e}, nil
}

// Contains reports whether timestamp ts falls within the range, both ends
// inclusive. An unparseable timestamp is never contained.
func (r Range) Contains(ts string) bool {
	d, err := ParseTimestamp(ts)
	if err != nil {
		return false
	}
	return r.ContainsDate(d)
}

// ContainsDate reports whether d falls within the range, both ends inclusive.
func (r Range) ContainsDate(d Date) bool {
	return d.cmp(r.Start) >= 0 && d.cmp(r.End) <= 0
}

// SingleMonth reports whether the range lies within one calendar month.
func (r Range) SingleMonth() bool {
	return r.Start.Year == r.End.Year && r.Start.Month == r.End.Month
}

// CoarseMatch is a cheap pre-check on the raw timestamp: it reports false
// only when the month abbreviation of a single-month range is absent from
// ts. For ranges spanning months it always reports true, since the month
// letters alone cannot rule a timestamp out.
func (r Range) CoarseMatch(ts string) bool {
	if !r.SingleMonth() {
		return true
	}
	return strings.Contains(ts, r.Start.Month.String()[:3])
}
