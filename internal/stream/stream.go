// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stream reads records from the front of a JSON dump one at a time.
// The dump is either a single top-level array of objects, streamed element
// by element, or newline-delimited objects. Memory use is bounded by the
// largest single record, not by the file size.
package stream

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// Framing identifies the top-level layout of the input file.
type Framing string

const (
	FramingArray Framing = "array"
	FramingLines Framing = "lines"
)

const readBufferSize = 1 << 20

// Source yields records from an open input file. It is forward-only and not
// restartable. Close releases the file; it is safe to stop reading early.
type Source struct {
	f       *os.File
	framing Framing

	dec *json.Decoder // array framing
	br  *bufio.Reader // line framing

	line    int
	skipped int
	done    bool
}

// Open opens path and detects its framing. A file whose first token is "["
// is streamed as an array; anything else is rewound and read line by line.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	s := &Source{f: f}
	if err := s.detect(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) detect() error {
	dec := json.NewDecoder(bufio.NewReaderSize(s.f, readBufferSize))
	dec.UseNumber()
	if tok, err := dec.Token(); err == nil {
		if d, ok := tok.(json.Delim); ok && d == '[' {
			s.framing = FramingArray
			s.dec = dec
			return nil
		}
	}

	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding input: %w", err)
	}
	s.framing = FramingLines
	s.br = bufio.NewReaderSize(s.f, readBufferSize)
	return nil
}

// Framing returns the detected top-level layout.
func (s *Source) Framing() Framing { return s.framing }

// Skipped returns the number of malformed records skipped so far.
func (s *Source) Skipped() int { return s.skipped }

// Next returns the next record. It returns io.EOF when the input is
// exhausted. Malformed records are skipped and counted; any other error is a
// stream-level failure and ends the stream.
func (s *Source) Next() (types.Record, error) {
	if s.done {
		return nil, io.EOF
	}
	var (
		rec types.Record
		err error
	)
	if s.framing == FramingArray {
		rec, err = s.nextElement()
	} else {
		rec, err = s.nextLine()
	}
	if err != nil {
		s.done = true
	}
	return rec, err
}

func (s *Source) nextElement() (types.Record, error) {
	for s.dec.More() {
		var raw json.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding array element: %w", err)
		}
		rec, err := types.ParseRecord(raw)
		if err != nil {
			s.skipped++
			continue
		}
		return rec, nil
	}
	// Consume the closing bracket so truncated arrays surface as errors.
	if _, err := s.dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of array: %w", err)
	}
	return nil, io.EOF
}

func (s *Source) nextLine() (types.Record, error) {
	for {
		line, err := s.br.ReadBytes('\n')
		if len(line) > 0 {
			s.line++
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				rec, perr := types.ParseRecord(trimmed)
				if perr == nil {
					return rec, nil
				}
				s.skipped++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading line %d: %w", s.line+1, err)
		}
	}
}

// All returns an iterator over the remaining records. Iteration ends at the
// end of input; a stream-level error is yielded once as the final pair.
func (s *Source) All() iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		for {
			rec, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the input file.
func (s *Source) Close() error {
	s.done = true
	return s.f.Close()
}

// Records opens path and iterates over its records. The file is closed when
// iteration finishes or the caller breaks out of the loop.
func Records(path string) iter.Seq2[types.Record, error] {
	return func(yield func(types.Record, error) bool) {
		src, err := Open(path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer src.Close()
		for rec, err := range src.All() {
			if !yield(rec, err) {
				return
			}
		}
	}
}
