// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/geo-extract/pkg/types"
)

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path    string
		format  types.OutputFormat
		want    types.OutputFormat
		wantErr bool
	}{
		{"out.csv", "", types.OutputCSV, false},
		{"out.txt", "", types.OutputCSV, false},
		{"out.db", "", types.OutputSQLite, false},
		{"out.SQLITE", "", types.OutputSQLite, false},
		{"out.db", types.OutputCSV, types.OutputCSV, false},
		{"out.csv", "SQLite", types.OutputSQLite, false},
		{"out.csv", "parquet", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.format), func(t *testing.T) {
			got, err := InferFormat(tt.path, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
	w, err := Open(path, "")
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]string{"coordinates", "text"}))
	require.NoError(t, w.WriteRow([]string{"51.5074,-0.1278", `say "hi"`}))
	require.NoError(t, w.WriteRow([]string{"", "plain"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "coordinates,text\n\"51.5074,-0.1278\",\"say \"\"hi\"\"\"\n,plain\n", string(data))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"coordinates", "text"},
		{"51.5074,-0.1278", `say "hi"`},
		{"", "plain"},
	}, rows)
}

func TestCSVTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old content\nmore\n"), 0o644))

	w, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"a"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func readSQLite(t *testing.T, path string) [][]string {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT seq, coordinates, text FROM records ORDER BY seq`)
	require.NoError(t, err)
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var seq int
		var coords, text string
		require.NoError(t, rows.Scan(&seq, &coords, &text))
		assert.Equal(t, len(out)+1, seq)
		out = append(out, []string{coords, text})
	}
	require.NoError(t, rows.Err())
	return out
}

func TestSQLiteWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tweets.db")
	w, err := Open(path, "")
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, w)

	require.NoError(t, w.WriteHeader([]string{"coordinates", "text"}))
	require.NoError(t, w.WriteRow([]string{"51.5,-0.1", "hello"}))
	require.NoError(t, w.WriteRow([]string{"", "it's"}))
	require.NoError(t, w.Close())

	assert.Equal(t, [][]string{{"51.5,-0.1", "hello"}, {"", "it's"}}, readSQLite(t, path))
}

func TestSQLiteBatchesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	s, err := NewSQLite(path)
	require.NoError(t, err)
	s.batch = 2

	require.NoError(t, s.WriteHeader([]string{"coordinates", "text"}))
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, s.WriteRow([]string{"0,0", text}))
	}
	require.NoError(t, s.Close())

	got := readSQLite(t, path)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[2][1])
}

func TestSQLiteRejectsBadInput(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorContains(t, s.WriteRow([]string{"x"}), "before header")
	assert.ErrorContains(t, s.WriteHeader([]string{"seq"}), "reserved")
	require.NoError(t, s.WriteHeader([]string{"a", "b"}))
	assert.ErrorContains(t, s.WriteRow([]string{"x"}), "1 values")
	assert.ErrorContains(t, s.WriteHeader([]string{"a"}), "already written")
}
