package normalisers

import (
	"strings"
	"unicode"
)

// Clean normalises extracted text: line endings become \n, control and
// non-printable runes are stripped, runs of spaces and tabs collapse to
// one space, line edges are trimmed, and runs of blank lines collapse
// to a single blank line (preserving paragraph breaks for the
// structural chunking pass). Outer whitespace is trimmed.
//
// Clean is a pure transform: it never fails, returns "" for "", and is
// idempotent: cleaning already-clean text returns it unchanged.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	pendingBlank := false

	for _, raw := range lines {
		line := cleanLine(raw)
		if line == "" {
			if len(out) > 0 {
				pendingBlank = true
			}
			continue
		}
		if pendingBlank {
			out = append(out, "")
			pendingBlank = false
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// cleanLine strips control/non-printable runes, collapses space and tab
// runs to a single space, and trims the line edges.
func cleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	prevSpace := false
	for _, r := range line {
		switch {
		case r == ' ' || r == '\t':
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			// Encoding artifacts from PDF extraction.
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}
