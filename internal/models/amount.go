package models

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericTokenRe = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// ParseAmount extracts a signed decimal amount from a statement cell.
//
// Handled forms:
//   - currency symbols and thousands separators: "$1,234.56"
//   - parenthesized negatives: "(123.45)" -> -123.45
//   - trailing CR suffix: "123.45 CR" -> -123.45 (credit)
//   - trailing DR suffix: "123.45 DR" -> 123.45 (debit)
//   - unicode minus signs
//
// The second return value is false when the cell contains no numeric token.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	// Normalize unicode minus and dash variants before sign detection.
	s = strings.NewReplacer("−", "-", "–", "-", "—", "-").Replace(s)

	negative := false
	forcePositive := false

	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "CR") {
		negative = true
		s = strings.TrimSpace(s[:len(s)-2])
	} else if strings.HasSuffix(upper, "DR") {
		forcePositive = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	token := numericTokenRe.FindString(s)
	if token == "" {
		return decimal.Zero, false
	}
	token = strings.ReplaceAll(token, ",", "")

	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}

	if forcePositive {
		amount = amount.Abs()
	} else if negative && amount.IsPositive() {
		amount = amount.Neg()
	}
	return amount, true
}
