package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "plain", input: "123.45", expected: "123.45", ok: true},
		{name: "currency and thousands", input: "$1,234.56", expected: "1234.56", ok: true},
		{name: "parenthesized negative", input: "(123.45)", expected: "-123.45", ok: true},
		{name: "credit suffix", input: "123.45 CR", expected: "-123.45", ok: true},
		{name: "debit suffix", input: "123.45 DR", expected: "123.45", ok: true},
		{name: "debit suffix stays positive", input: "-123.45 DR", expected: "123.45", ok: true},
		{name: "unicode minus", input: "−45.00", expected: "-45.00", ok: true},
		{name: "leading minus", input: "-45.00", expected: "-45.00", ok: true},
		{name: "no suffix space", input: "55.10CR", expected: "-55.10", ok: true},
		{name: "integer", input: "1,000", expected: "1000", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "text only", input: "PAYMENT THANK YOU", ok: false},
		{name: "whitespace", input: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				expected := decimal.RequireFromString(tt.expected)
				assert.True(t, expected.Equal(got), "expected %s, got %s", expected, got)
			}
		})
	}
}
