package models

import "github.com/shopspring/decimal"

// TransactionType tags how a classified transaction is booked.
type TransactionType string

const (
	TypeExpense             TransactionType = "EXPENSE"
	TypeIncome              TransactionType = "INCOME"
	TypeIncomeOffsetExpense TransactionType = "INCOME_TO_OFFSET_EXPENSE"
	TypeManualCR            TransactionType = "MANUAL_CR"
	TypeManualDR            TransactionType = "MANUAL_DR"
	TypeIgnore              TransactionType = "IGNORE_TRANSACTION"
)

// CategoryUnclassified is the fallback category for transactions matching no
// rule. Rows in this category are flagged for manual review downstream.
const CategoryUnclassified = "Unclassified"

// ColumnRef identifies a spreadsheet column by schema name and letter.
type ColumnRef struct {
	Name   string `json:"name" yaml:"name"`
	Letter string `json:"letter,omitempty" yaml:"letter,omitempty"`
}

// DualEntry describes the double-entry booking of a classified amount:
// the same (percentage-adjusted) value posted to a debit and a credit column.
type DualEntry struct {
	DRColumn        *ColumnRef      `json:"DR_COLUMN,omitempty" yaml:"DR_COLUMN,omitempty"`
	CRColumn        *ColumnRef      `json:"CR_COLUMN,omitempty" yaml:"CR_COLUMN,omitempty"`
	ApplyPercentage decimal.Decimal `json:"APPLY_PERCENTAGE,omitempty" yaml:"APPLY_PERCENTAGE,omitempty"`
}

// Multiplier returns the percentage multiplier, defaulting to 1 when unset.
func (d *DualEntry) Multiplier() decimal.Decimal {
	if d == nil || d.ApplyPercentage.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d.ApplyPercentage
}

// Classification is the result of evaluating the rule set against one
// transaction.
type Classification struct {
	Category        string          `json:"category"`
	TransactionType TransactionType `json:"transaction_type"`
	DualEntry       *DualEntry      `json:"dual_entry,omitempty"`
}

// NeedsReview reports whether the classification requires manual attention.
func (c Classification) NeedsReview() bool {
	return c.TransactionType == TypeManualCR || c.TransactionType == TypeManualDR
}
