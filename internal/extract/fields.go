// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/geo-extract/pkg/types"
)

// HashtagsField is the pseudo-field name that always refers to the derived
// hashtag text, whatever the configured hashtag source field is called.
const HashtagsField = "hashtags"

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// SingleLine replaces every line feed and carriage return with a space.
func SingleLine(s string) string {
	return lineBreaks.Replace(s)
}

// HashtagText flattens a hashtag list into space-separated tag texts. The
// value may be a list of objects with a "text" key or that list encoded as
// a JSON string. Blank tags are dropped; anything unusable yields "".
func HashtagText(v any) string {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return ""
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return ""
		}
		v = decoded
	}
	list, ok := v.([]any)
	if !ok {
		return ""
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		obj, ok := types.AsRecord(item)
		if !ok {
			continue
		}
		text, ok := obj.String("text")
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			tags = append(tags, text)
		}
	}
	return strings.Join(tags, " ")
}

// StripHTML returns the text content of an HTML fragment such as the
// "source" anchor of a tweet. Entities are unescaped.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// lookup returns the value at a possibly dotted field name. A literal key
// containing dots wins over the nested path.
func lookup(rec types.Record, name string) (any, bool) {
	if v, ok := rec.Value(name); ok {
		return v, true
	}
	if !strings.Contains(name, ".") {
		return nil, false
	}
	return rec.Path(strings.Split(name, ".")...)
}
