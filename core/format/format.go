// Package format normalizes the text field of Anki notes.
// It strips presentational markup, fixes punctuation spacing, and
// collapses whitespace, while protecting spans that must survive
// untouched (sound tags, ruby markers, ellipses, "!?" pairs).
//
// Normalize is idempotent: running it over already-clean text returns
// the text unchanged, so change detection against the original value
// is reliable and repeated runs over a deck converge.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// markupPattern matches presentational markup that strips to nothing:
// line-break tags, div open/close tags, and non-breaking-space entities.
// Removal leaves no replacement space; the surrounding text is expected
// to carry its own whitespace or punctuation.
var markupPattern = regexp.MustCompile(`<br>|</?div>|&nbsp;`)

// protectPattern matches spans the cleanup passes must not touch:
// bracketed tags ([sound:...], ruby/furigana markers), ellipses, and
// the "!?" pair. Matched left to right, non-overlapping, in one scan
// of the input so a match can never land inside a placeholder.
var protectPattern = regexp.MustCompile(`\[[^\]]+\]|\.\.\.|!\?`)

// whitespacePattern matches runs of two or more whitespace characters.
var whitespacePattern = regexp.MustCompile(`\s{2,}`)

// placeholderBase opens with a NUL byte, which cannot occur in note
// text entered through Anki, so a placeholder never collides with real
// content during restoration.
const placeholderBase = "\x00tag"

// span records one protected substring and the placeholder standing in
// for it. Spans live only for the duration of a single Normalize call.
type span struct {
	placeholder string
	original    string
}

// Normalize returns the cleaned form of a note's text field.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := markupPattern.ReplaceAllString(text, "")
	s, spans := protect(s)
	s = spacePunctuation(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = restore(s, spans)
	return strings.TrimSpace(s)
}

// protect replaces every protected span with a unique placeholder and
// returns the substituted string plus the restoration list. The spans
// come from one left-to-right scan of the original string; the output
// is assembled from the original plus the match list, never rescanned.
func protect(s string) (string, []span) {
	locs := protectPattern.FindAllStringIndex(s, -1)
	if locs == nil {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	spans := make([]span, 0, len(locs))

	last := 0
	for i, loc := range locs {
		placeholder := fmt.Sprintf("%s%d__", placeholderBase, i)
		b.WriteString(s[last:loc[0]])
		b.WriteString(placeholder)
		spans = append(spans, span{placeholder: placeholder, original: s[loc[0]:loc[1]]})
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String(), spans
}

// spacePunctuation inserts a single space after '.', '!', or '?' when
// the next character is not whitespace, including at end of string.
// A byte scan instead of a regexp: RE2 has no negative lookahead, and
// a capture-group rewrite would skip the second of two adjacent
// punctuation characters.
func spacePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		if c == '.' || c == '!' || c == '?' {
			if i+1 == len(s) || !isSpace(s[i+1]) {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// isSpace reports ASCII whitespace, the same set \s matches in RE2, so
// the insertion and collapse passes agree on what counts as a space.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

// restore swaps every placeholder back to its original span, in the
// order they were protected. Placeholders are unique per call, so each
// replacement fires exactly once.
func restore(s string, spans []span) string {
	for _, sp := range spans {
		s = strings.Replace(s, sp.placeholder, sp.original, 1)
	}
	return s
}
