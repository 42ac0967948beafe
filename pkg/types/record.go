// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the geo-extract pipeline:
// the schema-less Record read from the input dump, the Coordinate resolved
// from it, and the configuration of each stage.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotObject is returned by ParseRecord when the value is valid JSON but
// not an object.
var ErrNotObject = errors.New("not a JSON object")

// Record is one parsed top-level JSON object from the input. Records have no
// fixed schema; every accessor reports absence through its second return
// value instead of panicking or returning an error.
type Record map[string]any

// ParseRecord strictly parses data as one JSON object. Invalid UTF-8 bytes
// are dropped first so a record cut at a multi-byte boundary still parses.
// Numbers are kept as json.Number to preserve 64-bit identifiers.
func ParseRecord(data []byte) (Record, error) {
	data = bytes.ToValidUTF8(data, nil)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing record: trailing data after object")
	}
	rec, ok := AsRecord(v)
	if !ok {
		return nil, ErrNotObject
	}
	return rec, nil
}

// Value returns the raw value stored under key.
func (r Record) Value(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	return v, ok
}

// Has reports whether key is present, even when its value is null.
func (r Record) Has(key string) bool {
	_, ok := r.Value(key)
	return ok
}

// String returns the value under key when it is a JSON string.
func (r Record) String(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the value under key when it is a JSON number.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false
	}
	return AsFloat(v)
}

// Map returns the value under key when it is a JSON object.
func (r Record) Map(key string) (Record, bool) {
	v, ok := r.Value(key)
	if !ok {
		return nil, false
	}
	return AsRecord(v)
}

// Slice returns the value under key when it is a JSON array.
func (r Record) Slice(key string) ([]any, bool) {
	v, ok := r.Value(key)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Path walks nested objects along keys and returns the final value.
func (r Record) Path(keys ...string) (any, bool) {
	cur := r
	for i, k := range keys {
		v, ok := cur.Value(k)
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		next, ok := AsRecord(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Text renders the value under key as a flat string. Strings are returned
// as-is, numbers and booleans in their JSON form, nested values as compact
// JSON. Missing and null values yield "".
func (r Record) Text(key string) string {
	v, ok := r.Value(key)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Keys returns the field names of the record in no particular order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}

// AsRecord converts a decoded JSON value into a Record if it is an object.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Record(m), true
	case Record:
		return m, true
	}
	return nil, false
}

// AsFloat converts a decoded JSON number into a float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// FormatValue renders a decoded JSON value for a tabular cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return FormatFloat(x)
	case json.Number:
		return x.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// FormatFloat renders f with the shortest representation that round-trips,
// without an exponent for ordinary geographic magnitudes.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") || len(s) < 22 {
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
