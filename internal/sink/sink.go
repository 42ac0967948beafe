// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink writes extracted rows to a tabular file. CSV and SQLite
// outputs share the Writer interface; both create missing parent
// directories and keep rows already written when the run aborts.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// Writer receives one header followed by any number of rows of the same
// width. Close flushes or commits whatever has been written.
type Writer interface {
	WriteHeader(fields []string) error
	WriteRow(row []string) error
	Close() error
}

// InferFormat returns format when set, otherwise picks one from the
// output file extension (.db, .sqlite, .sqlite3 select SQLite; anything
// else CSV).
func InferFormat(path string, format types.OutputFormat) (types.OutputFormat, error) {
	switch types.OutputFormat(strings.ToLower(string(format))) {
	case types.OutputCSV:
		return types.OutputCSV, nil
	case types.OutputSQLite:
		return types.OutputSQLite, nil
	case "":
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or sqlite)", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return types.OutputSQLite, nil
	}
	return types.OutputCSV, nil
}

// Open creates (or truncates) the output at path in the given format.
func Open(path string, format types.OutputFormat) (Writer, error) {
	format, err := InferFormat(path, format)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	if format == types.OutputSQLite {
		return NewSQLite(path)
	}
	return NewCSV(path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
