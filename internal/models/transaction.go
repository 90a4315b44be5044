// Package models defines the canonical transaction record and the types shared
// by ingestion, classification and export.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record produced by statement ingestion.
// It is a closed record: ingestion never attaches ad-hoc fields, and anything
// display-only (highlighting, notes) belongs to the mapping layer.
//
// Sign convention: positive Amount is a charge/debit, negative is a
// payment/credit.
type Transaction struct {
	TransactionDate string          `csv:"transaction_date" json:"transaction_date"`
	PostingDate     string          `csv:"posting_date" json:"posting_date"`
	Description     string          `csv:"description" json:"description"`
	Amount          decimal.Decimal `csv:"amount" json:"amount"`
	Source          string          `csv:"source" json:"source"`
	Section         string          `csv:"section" json:"section"`
}

// Debit returns the charge portion of the amount, or zero when the
// transaction is a credit.
func (t Transaction) Debit() decimal.Decimal {
	if t.Amount.IsPositive() {
		return t.Amount
	}
	return decimal.Zero
}

// Credit returns the payment portion of the amount as a positive value, or
// zero when the transaction is a charge.
func (t Transaction) Credit() decimal.Decimal {
	if t.Amount.IsNegative() {
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// IsDebit reports whether the transaction is a charge.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsPositive()
}

// StringField resolves a textual rule field against the record. The second
// return value is false for unknown fields.
func (t Transaction) StringField(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "description", "item":
		return t.Description, true
	case "date", "transaction_date":
		return t.TransactionDate, true
	case "posting_date":
		return t.PostingDate, true
	case "source":
		return t.Source, true
	case "section":
		return t.Section, true
	default:
		return "", false
	}
}

// NumericField resolves a numeric rule field against the record. Debit and
// Credit resolve to zero-or-positive views of the signed amount; a zero value
// reports ok=false so rules do not match the absent side.
func (t Transaction) NumericField(name string) (decimal.Decimal, bool) {
	switch strings.ToLower(name) {
	case "amount":
		return t.Amount, true
	case "debit":
		d := t.Debit()
		return d, !d.IsZero()
	case "credit":
		c := t.Credit()
		return c, !c.IsZero()
	default:
		return decimal.Zero, false
	}
}
