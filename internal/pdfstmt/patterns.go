package pdfstmt

import (
	"regexp"
	"strconv"
	"strings"
)

// Header labels arrive from bank profiles with real-world quirks: a currency
// annotation after AMOUNT, bank-specific prefixes before DESCRIPTION, labels
// wrapping across two PDF text lines with unrelated content in between.
// LabelPattern turns a label string into a pattern tolerating those quirks.
// New bank variants should be handled by extending these rewrite rules, not by
// adding per-bank code paths.

const interleavedLineMax = 60

// LabelPattern compiles the matching pattern for one header label.
func LabelPattern(label string) *regexp.Regexp {
	label = strings.TrimSpace(label)

	brokenParts := strings.Split(label, "\n")
	var fragments []string
	for i, part := range brokenParts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i > 0 {
			// Parts separated by an embedded line break may render with
			// plain whitespace between them or with one short unrelated
			// line interleaved.
			fragments = append(fragments, `(?:\s+[^\n]{0,`+strconv.Itoa(interleavedLineMax)+`}\n\s*|\s+)`)
		}
		fragments = append(fragments, partPattern(part))
	}
	if len(fragments) == 0 {
		return regexp.MustCompile(`$^`) // matches nothing
	}
	return regexp.MustCompile(`(?i)` + strings.Join(fragments, ""))
}

// partPattern rewrites one line-break-free label part.
func partPattern(part string) string {
	tokens := strings.Fields(part)
	pieces := make([]string, 0, len(tokens))
	for i, token := range tokens {
		p := regexp.QuoteMeta(token)
		if strings.EqualFold(token, "AMOUNT") {
			// "AMOUNT" or "AMOUNT ($)" / "AMOUNT (CAD)".
			p += `(?:\s*\([^)]*\))?`
		}
		if strings.EqualFold(token, "DESCRIPTION") && i == 0 {
			// Up to two arbitrary uppercase prefix tokens, e.g.
			// "TRANSACTION DESCRIPTION".
			p = `(?:[A-Z&/]+\s+){0,2}` + p
		}
		pieces = append(pieces, p)
	}
	return strings.Join(pieces, `\s+`)
}
