// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tail

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// KeyFields are printed first, in this order, when describing records.
var KeyFields = []string{"id", "created_at", "updated_at", "name", "title", "status"}

const truncateAt = 100

// Describe writes a human-readable listing of records. In the short form
// each record shows its key fields and the names of the remaining fields;
// the full form shows every field with long strings truncated.
func Describe(w io.Writer, recs []types.Record, full bool) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintf(w, "Found %d records:\n", len(recs))
	fmt.Fprintln(w, rule)

	for i, rec := range recs {
		fmt.Fprintf(w, "\nRecord %d:\n", i+1)
		keys := rec.Keys()
		sort.Strings(keys)

		if full {
			for _, k := range keys {
				fmt.Fprintf(w, "  %s: %s\n", k, truncate(rec.Text(k)))
			}
			continue
		}

		isKey := make(map[string]bool, len(KeyFields))
		for _, k := range KeyFields {
			isKey[k] = true
			if rec.Has(k) {
				fmt.Fprintf(w, "  %s: %s\n", k, rec.Text(k))
			}
		}
		var other []string
		for _, k := range keys {
			if !isKey[k] {
				other = append(other, k)
			}
		}
		if len(other) > 0 {
			fmt.Fprintf(w, "  other fields: %s\n", strings.Join(other, ", "))
		}
	}

	fmt.Fprintln(w, rule)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= truncateAt {
		return s
	}
	return string(r[:truncateAt]) + "..."
}
