// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds top-level JSON object boundaries in a byte buffer by
// balancing braces while skipping string literals and escaped quotes. It does
// not validate JSON; callers parse the located span to confirm it.
package locate

// Span is a half-open byte range [Start, End) holding one object.
type Span struct {
	Start int
	End   int
}

// ReverseState tracks brace depth and string-literal state while a buffer is
// scanned from right to left. It can be fed successive chunks, each one lying
// immediately before the previous one in the file, so a scan may continue
// across chunk boundaries without retaining the bytes already seen.
//
// The scan must start at a position outside any string literal and outside
// any object, e.g. the end of a file or the start of an object already found.
// Callers that cannot be sure of that restart with a fresh state at a closing
// brace and confirm each hit with ObjectEnd.
type ReverseState struct {
	depth    int
	inString bool

	// A quote seen right to left is escaped only if an odd run of
	// backslashes precedes it, which is not known until the next
	// non-backslash byte (or the start of the file) is reached.
	quotePending bool
	backslashes  int
}

// Depth returns the number of unclosed "}" seen so far.
func (s *ReverseState) Depth() int { return s.depth }

// Reset returns the state to "outside any object".
func (s *ReverseState) Reset() { *s = ReverseState{} }

// Feed scans b from its last byte toward its first. It returns the index of
// the "{" at which depth returned to zero, i.e. the start of the last
// complete object, or -1 if the start lies further left. After a hit the
// state is positioned just before that "{"; callers normally Reset it.
func (s *ReverseState) Feed(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		c := b[i]
		if s.quotePending {
			if c == '\\' {
				s.backslashes++
				continue
			}
			s.resolveQuote()
		}
		if c == '"' {
			s.quotePending = true
			s.backslashes = 0
			continue
		}
		if s.inString {
			continue
		}
		switch c {
		case '}':
			s.depth++
		case '{':
			if s.depth == 0 {
				// Unmatched opener, e.g. the tail of a truncated record.
				continue
			}
			s.depth--
			if s.depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (s *ReverseState) resolveQuote() {
	if s.backslashes%2 == 0 {
		s.inString = !s.inString
	}
	s.quotePending = false
	s.backslashes = 0
}

// LastObjectStart returns the index of the "{" opening the last complete
// object in b, or -1 if none is found.
func LastObjectStart(b []byte) int {
	var s ReverseState
	return s.Feed(b)
}

// ObjectEnd scans forward from start, which must index a "{", and returns
// the index just past the matching "}". It returns -1 if the object is not
// closed within b.
func ObjectEnd(b []byte, start int) int {
	if start < 0 || start >= len(b) || b[start] != '{' {
		return -1
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(b); i++ {
		c := b[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// LastObject returns the span of the last brace-balanced object in b. The
// backward pass finds the opening brace and a forward pass from there
// confirms the matching close.
func LastObject(b []byte) (Span, bool) {
	start := LastObjectStart(b)
	if start < 0 {
		return Span{}, false
	}
	end := ObjectEnd(b, start)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}
