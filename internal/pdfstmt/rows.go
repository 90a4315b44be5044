package pdfstmt

import (
	"strings"

	"github.com/shopspring/decimal"

	"taxbook/internal/dateutils"
	"taxbook/internal/logging"
	"taxbook/internal/models"
	"taxbook/internal/profile"
)

// noiseMarkers flag rows that are page furniture rather than transactions:
// totals, balances, account headers and page labels.
var noiseMarkers = []string{
	"TOTAL",
	"TOTALS",
	"SUBTOTAL",
	"NEW BALANCE",
	"PREVIOUS STATEMENT BALANCE",
	"STATEMENT BALANCE",
	"BALANCE FORWARD",
	"TOTAL INTEREST",
	"TOTAL PAYMENTS",
	"TOTAL CREDITS",
	"TOTAL CHARGES",
	"TOTAL FEES",
	"ACCOUNT NUMBER",
	"PAGE ",
}

// ParseRows converts a raw extracted cell grid into canonical transactions.
// Rows are processed in order: noise rows are dropped, continuation rows are
// merged into the most recently emitted transaction's description, data rows
// become records. A row whose configured transaction date fails to parse is
// dropped entirely rather than emitted with a missing required date.
func ParseRows(raw [][]string, section *profile.Section, source string, taxYear int, period *models.StatementPeriod, logger logging.Logger) []models.Transaction {
	if logger == nil {
		logger = logging.GetLogger()
	}

	var out []models.Transaction
	for _, rawRow := range raw {
		row := cleanRow(rawRow)
		if row == nil {
			continue
		}

		if isNoiseRow(row) {
			continue
		}

		amount, hasAmount := amountFromRow(row, section)
		desc := cellAt(row, section, profile.FieldDescription)
		hasDate := rowHasDateToken(row)

		if !hasAmount && !hasDate {
			// Continuation: wrapped description text belonging to the last
			// emitted transaction, never a standalone record.
			if desc != "" && len(out) > 0 {
				last := &out[len(out)-1]
				last.Description = strings.TrimSpace(last.Description + " " + desc)
			}
			continue
		}

		if !hasAmount {
			logger.Debug("Skipping row without parseable amount",
				logging.Field{Key: logging.FieldSection, Value: section.SectionName})
			continue
		}

		if section.Inverted() {
			amount = amount.Neg()
		}

		tx := models.Transaction{
			Description: desc,
			Amount:      amount,
			Source:      source,
			Section:     section.SectionName,
		}

		if _, ok := section.ColumnIndex(profile.FieldTransactionDate); ok {
			dateCell := cellAt(row, section, profile.FieldTransactionDate)
			t, parsed := dateutils.ParseStatementDate(dateCell, taxYear, period)
			if !parsed {
				logger.Debug("Skipping row with unparseable transaction date",
					logging.Field{Key: logging.FieldSection, Value: section.SectionName},
					logging.Field{Key: "cell", Value: dateCell})
				continue
			}
			tx.TransactionDate = dateutils.ToISODate(t)
		}

		if _, ok := section.ColumnIndex(profile.FieldPostingDate); ok {
			if t, parsed := dateutils.ParseStatementDate(cellAt(row, section, profile.FieldPostingDate), taxYear, period); parsed {
				tx.PostingDate = dateutils.ToISODate(t)
			}
		}

		out = append(out, tx)
	}
	return out
}

// cleanRow strips each cell and collapses internal newlines to spaces.
// A fully empty row cleans to nil.
func cleanRow(row []string) []string {
	cleaned := make([]string, len(row))
	empty := true
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "\n", " ")
		cell = strings.Join(strings.Fields(cell), " ")
		cleaned[i] = cell
		if cell != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return cleaned
}

// isNoiseRow flags totals, balances and page furniture.
func isNoiseRow(row []string) bool {
	var nonEmpty []string
	for _, cell := range row {
		if cell != "" {
			nonEmpty = append(nonEmpty, cell)
		}
	}
	if len(nonEmpty) == 1 && len(nonEmpty[0]) <= 2 {
		return true
	}
	joined := strings.ToUpper(strings.Join(nonEmpty, " "))
	for _, marker := range noiseMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

func amountFromRow(row []string, section *profile.Section) (decimal.Decimal, bool) {
	cell := cellAt(row, section, profile.FieldAmount)
	if cell == "" {
		return decimal.Zero, false
	}
	return models.ParseAmount(cell)
}

func rowHasDateToken(row []string) bool {
	for _, cell := range row {
		if dateutils.ContainsDateToken(cell) {
			return true
		}
	}
	return false
}

func cellAt(row []string, section *profile.Section, field string) string {
	idx, ok := section.ColumnIndex(field)
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
