// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tail reads the last records of a very large JSON dump without
// scanning it from the front. The file is read backward in fixed-size
// chunks; complete objects are peeled off the end of a pending buffer with
// the brace locator and parsed strictly. Both top-level framings (one array
// of objects, or one object per line) are handled the same way. A partly
// written last record is passed over and counted as malformed.
package tail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/geo-extract/internal/locate"
	"github.com/pdiddy/geo-extract/pkg/types"
)

// StopFunc is called after each record is found, newest first, with the
// number of records found so far. Returning true ends the scan.
type StopFunc func(rec types.Record, found int) bool

// Stats reports what a backward scan did.
type Stats struct {
	FileSize  int64
	BytesRead int64
	Chunks    int

	// Malformed counts balanced spans that did not parse as a JSON object,
	// cut records passed over (such as a partly written last line), and a
	// truncated record left at the start of the file.
	Malformed int

	// Oversized counts records dropped because they outgrew the buffer cap.
	Oversized int

	// ReachedStart reports whether the scan read back to offset zero.
	ReachedStart bool
}

// Scan reads path backward and returns the records found, in ascending file
// order, until stop returns true or the start of the file is reached.
func Scan(ctx context.Context, path string, cfg types.TailConfig, stop StopFunc) ([]types.Record, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return ScanReader(ctx, f, info.Size(), cfg, stop)
}

// ScanReader is Scan over any random-access reader of the given size.
func ScanReader(ctx context.Context, r io.ReaderAt, size int64, cfg types.TailConfig, stop StopFunc) ([]types.Record, Stats, error) {
	cfg = withDefaults(cfg)
	s := &scanner{
		maxBuf: cfg.ChunkSize * cfg.MaxBufferChunks,
		stop:   stop,
		stats:  Stats{FileSize: size},
		pos:    size,
		anchor: -1,
		cand:   -1,
	}

	for s.pos > 0 {
		if err := ctx.Err(); err != nil {
			return reverse(s.found), s.stats, err
		}

		n := int64(cfg.ChunkSize)
		if n > s.pos {
			n = s.pos
		}
		chunk := make([]byte, n)
		if _, err := r.ReadAt(chunk, s.pos-n); err != nil && err != io.EOF {
			return reverse(s.found), s.stats, fmt.Errorf("reading at offset %d: %w", s.pos-n, err)
		}
		s.pos -= n
		s.stats.Chunks++
		s.stats.BytesRead += n

		s.buf = append(chunk, s.buf...)
		if s.scan() {
			return reverse(s.found), s.stats, nil
		}
	}

	s.stats.ReachedStart = true
	if s.skipping || s.anchor >= 0 || s.junk {
		s.stats.Malformed++
	}
	return reverse(s.found), s.stats, nil
}

// scanner is the state of one backward scan. Offsets held in int64 fields
// are file offsets; buf holds the unconsumed bytes [pos, pos+len(buf)).
//
// Each attempt starts at a "}" (the anchor) with a fresh ReverseState and
// stops at the "{" that balances it. An attempt is trusted when only
// separators lie between the anchor and a point known to be outside any
// record, so the scan started outside any string. An untrusted attempt
// may have started inside a cut record; if its span does not check out the
// next "}" to the left is tried instead.
type scanner struct {
	maxBuf int
	stop   StopFunc
	stats  Stats
	found  []types.Record // newest first

	pos int64
	buf []byte

	st     locate.ReverseState
	anchor int64 // -1 when no attempt is open
	fed    int64 // leftmost offset fed to st

	// cand is the "{" matched to anchor while the bytes before it are still
	// unread, or -1.
	cand int64

	// outside is set once the bytes after buf are known to lie outside any
	// record: a record was settled there, or a separator ends the file. A
	// file ending in "}" may end inside a string of a cut record.
	outside bool
	trusted bool

	// junk is set once bytes belonging to no record were passed over; they
	// count as one malformed record when the next record is settled.
	junk bool

	// skipping is set while the start of an over-cap record is sought; its
	// bytes are not retained.
	skipping bool
}

func (s *scanner) rel(off int64) int { return int(off - s.pos) }

// scan consumes what it can of buf. It reports whether stop ended the scan.
func (s *scanner) scan() bool {
	for {
		if s.skipping {
			idx := s.st.Feed(s.buf[:s.rel(s.fed)])
			if idx < 0 {
				s.buf = s.buf[:0]
				s.fed = s.pos
				return false
			}
			s.skipping = false
			s.stats.Oversized++
			s.settle(idx)
			continue
		}

		if s.anchor < 0 && !s.findAnchor() {
			return false
		}

		if s.cand < 0 {
			idx := s.st.Feed(s.buf[:s.rel(s.fed)])
			if idx < 0 {
				s.fed = s.pos
				switch {
				case s.pos == 0 || (!s.trusted && len(s.buf) > s.maxBuf):
					// A truncated head, or an anchor inside a cut record.
					s.retry(s.rel(s.anchor))
					continue
				case len(s.buf) > s.maxBuf:
					s.skipping = true
					s.buf = s.buf[:0]
				}
				return false
			}
			s.fed = s.pos + int64(idx)
			s.cand = s.fed
		}

		top, decided := s.topLevel(s.rel(s.cand))
		if !decided {
			return false
		}
		if s.accept(top) {
			return true
		}
	}
}

// findAnchor opens an attempt at the last "}" in buf. It reports false when
// buf holds none.
func (s *scanner) findAnchor() bool {
	i := bytes.LastIndexByte(s.buf, '}')
	switch rest := s.buf[i+1:]; {
	case !separators(rest):
		// The file or the last settled record is preceded by a cut record.
		s.junk = true
	case len(rest) > 0:
		s.outside = true
	}
	if i < 0 {
		s.buf = s.buf[:0]
		return false
	}
	s.buf = s.buf[:i+1]
	s.anchor = s.pos + int64(i)
	s.fed = s.anchor + 1
	s.trusted = s.outside && !s.junk
	s.st.Reset()
	return true
}

// topLevel reports whether the object opening at idx is a record rather
// than a member of a cut one: it must not follow a ":" or a "[" other than
// the one framing the whole file. decided is false while only whitespace is
// known to precede it.
func (s *scanner) topLevel(idx int) (top, decided bool) {
	if j := lastNonSpace(s.buf[:idx]); j >= 0 {
		switch s.buf[j] {
		case ':':
			return false, true
		case '[':
			if lastNonSpace(s.buf[:j]) >= 0 {
				return false, true
			}
		default:
			return true, true
		}
	}
	if s.pos == 0 || len(s.buf) > s.maxBuf {
		return true, true
	}
	return false, false
}

// accept checks the span from cand to anchor and settles it. It reports
// whether stop ended the scan.
func (s *scanner) accept(top bool) bool {
	start, end := s.rel(s.cand), s.rel(s.anchor)+1

	var rec types.Record
	ok := locate.ObjectEnd(s.buf, start) == end
	if ok {
		var err error
		rec, err = types.ParseRecord(s.buf[start:end])
		ok = err == nil
	}

	switch {
	case ok && top:
		if s.junk {
			s.stats.Malformed++
			s.junk = false
		}
		s.found = append(s.found, rec)
		s.settle(start)
		return s.stop != nil && s.stop(rec, len(s.found))
	case ok:
		// A complete value inside a cut record; the record opens further left.
		s.retry(start)
	case s.trusted && top:
		s.stats.Malformed++
		s.settle(start)
	default:
		s.retry(end - 1)
	}
	return false
}

// settle drops buf from idx on and closes the open attempt.
func (s *scanner) settle(idx int) {
	s.outside = true
	s.buf = s.buf[:idx]
	s.st.Reset()
	s.anchor, s.cand = -1, -1
}

// retry abandons the open attempt and passes over the bytes from idx on.
func (s *scanner) retry(idx int) {
	s.junk = true
	s.settle(idx)
}

// separators reports whether b holds only what may sit between records.
func separators(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n', ',', ']':
		default:
			return false
		}
	}
	return true
}

func lastNonSpace(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return i
		}
	}
	return -1
}

// LastN returns the last n well-formed objects of the file in file order.
func LastN(ctx context.Context, path string, n int, cfg types.TailConfig) ([]types.Record, Stats, error) {
	if n <= 0 {
		return nil, Stats{}, nil
	}
	return Scan(ctx, path, cfg, func(_ types.Record, found int) bool {
		return found >= n
	})
}

// LastWithField returns the last object of the file that carries field. The
// scan stops at the first hit from the end.
func LastWithField(ctx context.Context, path, field string, cfg types.TailConfig) (types.Record, bool, Stats, error) {
	recs, stats, err := Scan(ctx, path, cfg, func(rec types.Record, _ int) bool {
		return rec.Has(field)
	})
	if err != nil {
		return nil, false, stats, err
	}
	if len(recs) == 0 || !recs[0].Has(field) {
		return nil, false, stats, nil
	}
	return recs[0], true, stats, nil
}

func withDefaults(cfg types.TailConfig) types.TailConfig {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = types.DefaultChunkSize
	}
	if cfg.MaxBufferChunks <= 0 {
		cfg.MaxBufferChunks = types.DefaultMaxBufferChunks
	}
	return cfg
}

func reverse(recs []types.Record) []types.Record {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs
}
