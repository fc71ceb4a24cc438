package vcard

import (
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// Card markers.
const (
	BeginMarker = "BEGIN:VCARD"
	EndMarker   = "END:VCARD"
)

// rule routes a card property to contact fields. Rules are checked in
// order and the first whose prefix matches the raw key wins, so a longer
// prefix must come before any shorter prefix it extends.
type rule struct {
	prefix string
	apply  func(c *types.Contact, key, value string)
}

var rules = []rule{
	{prefix: "N", apply: applyName},
	{prefix: "TEL", apply: applyTel},
	{prefix: "FN", apply: applyFullName},
}

// Parse decodes card text into a contact sequence. It never fails:
// unmatched markers yield best-effort records and lines without a colon
// are skipped.
//
// END:VCARD appends a copy of the current record without resetting it, so
// an END with no preceding BEGIN still appends whatever has accumulated.
func Parse(text string) types.Sequence {
	seq := types.Sequence{}
	var cur types.Contact
	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, BeginMarker):
			cur = types.Contact{}
		case strings.HasPrefix(line, EndMarker):
			seq.Append(cur.Clone())
		default:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			classify(&cur, key, value)
		}
	}
	return seq
}

func classify(c *types.Contact, key, value string) {
	for _, r := range rules {
		if strings.HasPrefix(key, r.prefix) {
			r.apply(c, key, value)
			return
		}
	}
	c.SetField(key, value)
}

// applyName takes family and given from the first two segments of a
// structured name; anything after them is dropped.
func applyName(c *types.Contact, _, value string) {
	parts := strings.Split(value, ";")
	family, given := parts[0], ""
	if len(parts) > 1 {
		given = parts[1]
	}
	c.Family = types.Str(family)
	c.Given = types.Str(given)
}

// applyTel classifies a telephone by its type parameters. Only the first
// unclassified number is kept.
func applyTel(c *types.Contact, key, value string) {
	upper := strings.ToUpper(key)
	switch {
	case strings.Contains(upper, "WORK"):
		c.TelWork = types.Str(value)
	case strings.Contains(upper, "HOME"):
		c.TelHome = types.Str(value)
	case c.Tel == nil:
		c.Tel = types.Str(value)
	}
}

func applyFullName(c *types.Contact, _, value string) {
	c.FullName = types.Str(value)
}

// splitLines splits text at every line boundary: CRLF, LF, CR, vertical
// tab, form feed, the file/group/record separators, NEL, and the Unicode
// line and paragraph separators. A trailing boundary does not produce an
// empty final line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if i < start {
			// Second byte of a CRLF pair.
			continue
		}
		switch r {
		case '\r':
			lines = append(lines, text[start:i])
			start = i + 1
			if start < len(text) && text[start] == '\n' {
				start++
			}
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, text[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
