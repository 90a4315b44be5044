// Package mapping converts classified transactions into bookkeeping
// spreadsheet rows. It owns the 28-column workbook schema the exporter
// renders.
package mapping

import "fmt"

// ColumnKind selects the cell format the exporter applies.
type ColumnKind int

const (
	KindDate ColumnKind = iota
	KindText
	KindCurrency
	KindFormula
)

// Column describes one spreadsheet column.
type Column struct {
	Letter      string
	Name        string
	Explanation string
	Kind        ColumnKind

	// formulaTemplate holds a fmt pattern taking the row number; only the
	// TOTAL column carries one.
	formulaTemplate string
}

// HasFormula reports whether the column's cells are computed.
func (c Column) HasFormula() bool {
	return c.formulaTemplate != ""
}

// Formula renders the column's formula for a given row.
func (c Column) Formula(row int) string {
	if c.formulaTemplate == "" {
		return ""
	}
	return fmt.Sprintf(c.formulaTemplate, row)
}

// Well-known column names referenced by the mapper and the rule fallback
// path. Every other column is addressed through rule dual_entry references.
const (
	ColDate          = "Date"
	ColItem          = "Item"
	ColWithdrawalsCR = "Withdrawals CR"
	ColDepositsDR    = "Deposits DR"
	ColTotal         = "TOTAL"
	ColNotes         = "Notes"
)

var columns = []Column{
	{Letter: "A", Name: ColDate, Explanation: "Transaction date", Kind: KindDate},
	{Letter: "B", Name: ColItem, Explanation: "Transaction description", Kind: KindText},
	{Letter: "C", Name: ColWithdrawalsCR, Explanation: "Liability / General Credit", Kind: KindCurrency},
	{Letter: "D", Name: ColDepositsDR, Explanation: "Asset / General Debit", Kind: KindCurrency},
	{Letter: "E", Name: "A/R DR", Explanation: "Accounts Receivable (Asset)", Kind: KindCurrency},
	{Letter: "F", Name: "Shareholder Contribution (CR)", Explanation: "Equity / Source of Funds", Kind: KindCurrency},
	{Letter: "G", Name: "Shareholder Drawings (DR)", Explanation: "Equity / Withdrawal", Kind: KindCurrency},
	{Letter: "H", Name: "Revenue CR", Explanation: "Income", Kind: KindCurrency},
	{Letter: "I", Name: "Office Expenses", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "J", Name: "Office Rent", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "K", Name: "Office Utilities", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "L", Name: "Vehicle Expenses", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "M", Name: "Accounting Fees", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "N", Name: "Telephone", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "O", Name: "Internet", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "P", Name: "Bank Fees", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "Q", Name: "Professional Fees", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "R", Name: "Dental / Medical", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "S", Name: "Supplies", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "T", Name: "Food Expenses from Business Meetings", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "U", Name: "Business Trip", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "V", Name: "Client Gifts", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "W", Name: "Marketing Costs", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "X", Name: "Misc", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "Y", Name: "Insurance", Explanation: "Expense", Kind: KindCurrency},
	{Letter: "Z", Name: "Donations", Explanation: "Expense", Kind: KindCurrency},
	{
		Letter: "AA", Name: ColTotal, Explanation: "Row balance formula", Kind: KindFormula,
		formulaTemplate: "=+D%[1]d+SUM(I%[1]d:Z%[1]d)+E%[1]d-C%[1]d-F%[1]d+G%[1]d-H%[1]d",
	},
	{Letter: "AB", Name: ColNotes, Explanation: "Manual notes or unclassified transactions", Kind: KindText},
}

// Schema returns the full column list in spreadsheet order.
func Schema() []Column {
	return columns
}

// ColumnByName looks up a schema column by name.
func ColumnByName(name string) (Column, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnByLetter looks up a schema column by its spreadsheet letter.
func ColumnByLetter(letter string) (Column, bool) {
	for _, c := range columns {
		if c.Letter == letter {
			return c, true
		}
	}
	return Column{}, false
}
