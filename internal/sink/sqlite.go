// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	// TableName is the table holding extracted rows.
	TableName = "records"

	// SeqColumn is the row number column, in write order starting at 1.
	SeqColumn = "seq"

	defaultBatchSize = 10_000
)

// SQLite writes rows into a single table, one TEXT column per field. Rows
// are inserted in batched transactions; Close commits the open batch.
type SQLite struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	width   int
	pending int
	batch   int
}

// NewSQLite creates a fresh database at path, replacing any existing file.
func NewSQLite(path string) (*SQLite, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("removing existing output %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path+"?_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &SQLite{db: db, batch: defaultBatchSize}, nil
}

// WriteHeader creates the table with one column per field.
func (s *SQLite) WriteHeader(fields []string) error {
	if s.stmt != nil {
		return fmt.Errorf("header already written")
	}
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, quoteIdent(SeqColumn)+" INTEGER PRIMARY KEY")
	names := make([]string, 0, len(fields))
	marks := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.EqualFold(f, SeqColumn) {
			return fmt.Errorf("field name %q is reserved", f)
		}
		cols = append(cols, quoteIdent(f)+" TEXT")
		names = append(names, quoteIdent(f))
		marks = append(marks, "?")
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(TableName), strings.Join(cols, ", "))
	if _, err := s.db.Exec(create); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	s.width = len(fields)
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(TableName), strings.Join(names, ", "), strings.Join(marks, ", "))
	stmt, err := s.db.Prepare(insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	s.stmt = stmt
	return nil
}

// WriteRow inserts one row, committing every batch rows.
func (s *SQLite) WriteRow(row []string) error {
	if s.stmt == nil {
		return fmt.Errorf("row written before header")
	}
	if len(row) != s.width {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), s.width)
	}
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		s.tx = tx
	}

	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}
	if _, err := s.tx.Stmt(s.stmt).Exec(args...); err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}

	s.pending++
	if s.pending >= s.batch {
		return s.commit()
	}
	return nil
}

func (s *SQLite) commit() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	s.pending = 0
	if err != nil {
		return fmt.Errorf("committing rows: %w", err)
	}
	return nil
}

// Close commits pending rows and closes the database.
func (s *SQLite) Close() error {
	commitErr := s.commit()
	if s.stmt != nil {
		s.stmt.Close()
	}
	closeErr := s.db.Close()
	if commitErr != nil {
		return commitErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing database: %w", closeErr)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
