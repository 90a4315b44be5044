package mapping

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxbook/internal/models"
)

// Row is one mapped spreadsheet row. Cells are keyed by schema column name;
// absent keys render as empty cells. Highlight and Ignore are display
// concerns resolved here so the exporter stays mechanical: highlighted rows
// get the review fill, ignored rows the muted style.
type Row struct {
	Cells     map[string]interface{}
	Highlight bool
	Ignore    bool
}

// MapTransaction books one classified transaction into a schema row.
// creditCard marks statements from credit-card profiles, whose items are
// annotated so bank-account and card activity stay distinguishable.
func MapTransaction(tx models.Transaction, cls models.Classification, creditCard bool) Row {
	row := Row{Cells: make(map[string]interface{})}

	row.Cells[ColDate] = tx.TransactionDate
	if creditCard {
		row.Cells[ColItem] = tx.Description + " (Credit-Card)"
	} else {
		row.Cells[ColItem] = tx.Description
	}

	amount, haveAmount := bookableAmount(tx, cls.TransactionType)

	switch {
	case haveAmount && cls.DualEntry != nil:
		adjusted := amount.Mul(cls.DualEntry.Multiplier())
		if dr := cls.DualEntry.DRColumn; dr != nil {
			row.Cells[columnName(dr)] = adjusted
		}
		if cr := cls.DualEntry.CRColumn; cr != nil {
			row.Cells[columnName(cr)] = adjusted
		}
	case haveAmount && cls.Category == models.CategoryUnclassified:
		// No booking columns known: park the amount on the general side
		// matching its direction so the TOTAL formula still balances.
		switch cls.TransactionType {
		case models.TypeManualCR:
			row.Cells[ColWithdrawalsCR] = amount
		case models.TypeManualDR:
			row.Cells[ColDepositsDR] = amount
		}
	}

	if cls.NeedsReview() {
		row.Cells[ColNotes] = "Please, review unclassified transaction: " + tx.Description
		row.Highlight = true
	}
	if cls.TransactionType == models.TypeIgnore {
		row.Cells[ColNotes] = fmt.Sprintf("Ignored transaction: %s -> %s",
			tx.Description, tx.Amount.Abs().String())
		row.Ignore = true
	}
	return row
}

// MapAll maps parallel transaction and classification slices.
func MapAll(txs []models.Transaction, cls []models.Classification, creditCard bool) []Row {
	rows := make([]Row, len(txs))
	for i := range txs {
		rows[i] = MapTransaction(txs[i], cls[i], creditCard)
	}
	return rows
}

// bookableAmount picks the side of the signed amount the transaction type
// books. Expenses and manual credits book the charge side, income types the
// payment side. A zero side means the transaction has nothing to book there.
func bookableAmount(tx models.Transaction, tt models.TransactionType) (decimal.Decimal, bool) {
	switch tt {
	case models.TypeExpense, models.TypeManualCR:
		d := tx.Debit()
		return d, !d.IsZero()
	case models.TypeIncome, models.TypeManualDR, models.TypeIncomeOffsetExpense:
		c := tx.Credit()
		return c, !c.IsZero()
	default:
		return decimal.Zero, false
	}
}

// columnName resolves a rule column reference, preferring the name and
// falling back to the letter for terse rule documents.
func columnName(ref *models.ColumnRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	if col, ok := ColumnByLetter(ref.Letter); ok {
		return col.Name
	}
	return ""
}
