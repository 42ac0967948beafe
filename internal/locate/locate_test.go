// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"single object", `{"a":1}`, `{"a":1}`, true},
		{"closing brace inside string", `{"a":1,"b":"}"}`, `{"a":1,"b":"}"}`, true},
		{"opening brace inside string", `[{"x":2},{"a":"{"}]`, `{"a":"{"}`, true},
		{"escaped quote before brace", `{"a":"x\"{"}`, `{"a":"x\"{"}`, true},
		{"escaped backslash then quote", `{"a":"x\\"}`, `{"a":"x\\"}`, true},
		{"nested objects", `[{"a":{"b":{"c":1}}}]`, `{"a":{"b":{"c":1}}}`, true},
		{"array framing picks last", `[{"id":1},{"id":2},{"id":3}]`, `{"id":3}`, true},
		{"newline framing picks last", "{\"id\":1}\n{\"id\":2}\n", `{"id":2}`, true},
		{"truncated at front", `"b":1},{"id":9}`, `{"id":9}`, true},
		{"no closing brace", `[{"id":1`, "", false},
		{"empty", ``, "", false},
		{"only separators", "[\n]\n", "", false},
		{"cut through object", `"a":1,"b":{"c":2}`, `{"c":2}`, true},
		{"unbalanced closer", `1,"b":{"c":2}}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok := LastObject([]byte(tt.input))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, tt.input[span.Start:span.End])
		})
	}
}

func TestLastObjectEmbeddedIsValidJSON(t *testing.T) {
	objects := []string{
		`{"a":1,"b":"}"}`,
		`{"a":"{","b":"\"}\""}`,
		`{"text":"line\nbreak {not a brace}","n":[1,2,{"k":"v"}]}`,
		`{"unicode":"café ☕ }"}`,
	}
	for _, obj := range objects {
		buf := []byte(`garbage "quoted" ` + `{"prev":true},` + obj + "\n  ,")
		span, ok := LastObject(buf)
		require.True(t, ok, obj)
		got := buf[span.Start:span.End]
		assert.Equal(t, obj, string(got))
		assert.True(t, json.Valid(got), "span should be valid JSON: %s", got)
	}
}

func TestReverseStateAcrossChunks(t *testing.T) {
	full := []byte(`{"a":"q\\\"{","b":{"c":"}"}}`)

	for split := 1; split < len(full); split++ {
		var s ReverseState
		right, left := full[split:], full[:split]

		idx := s.Feed(right)
		if idx >= 0 {
			t.Fatalf("split %d: found start %d in right part only", split, idx)
		}
		idx = s.Feed(left)
		assert.Equal(t, 0, idx, "split %d", split)
	}
}

func TestReverseStateReset(t *testing.T) {
	var s ReverseState
	s.Feed([]byte(`"x"}}`))
	assert.Equal(t, 2, s.Depth())
	s.Reset()
	assert.Equal(t, 0, s.Depth())
	assert.False(t, s.inString)
	assert.False(t, s.quotePending)
}

func TestObjectEnd(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start int
		want  int
	}{
		{"simple", `{"a":1} tail`, 0, 7},
		{"brace in string", `{"a":"}"}`, 0, 9},
		{"escaped quote", `{"a":"\"}"}`, 0, 11},
		{"not a brace", `x{"a":1}`, 0, -1},
		{"unterminated", `{"a":{"b":1}`, 0, -1},
		{"out of range", `{}`, 5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectEnd([]byte(tt.input), tt.start))
		})
	}
}
