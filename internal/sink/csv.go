// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSV writes rows as comma-separated values with standard quoting, so a
// coordinate cell "lat,lng" is quoted.
type CSV struct {
	f *os.File
	w *csv.Writer
}

// NewCSV creates or truncates the file at path.
func NewCSV(path string) (*CSV, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	return &CSV{f: f, w: csv.NewWriter(f)}, nil
}

// WriteHeader writes the column names as the first row.
func (c *CSV) WriteHeader(fields []string) error {
	return c.WriteRow(fields)
}

// WriteRow appends one row.
func (c *CSV) WriteRow(row []string) error {
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (c *CSV) Close() error {
	c.w.Flush()
	flushErr := c.w.Error()
	closeErr := c.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing csv: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing csv: %w", closeErr)
	}
	return nil
}
