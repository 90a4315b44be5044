// Package csvstmt parses CSV bank statements into canonical transactions,
// driven by the bank profile's csv_format column map. One data-driven parser
// covers every CSV-exporting bank instead of a code path per institution.
package csvstmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"taxbook/internal/common"
	"taxbook/internal/dateutils"
	"taxbook/internal/logging"
	"taxbook/internal/models"
	"taxbook/internal/parsererror"
	"taxbook/internal/profile"
)

// csvSectionName labels transactions from CSV statements, which carry no
// table sections of their own.
const csvSectionName = "Transactions"

// dateLayouts maps profile date_format tokens to Go reference layouts.
var dateLayouts = map[string]string{
	"MM/DD/YYYY": "01/02/2006",
	"DD/MM/YYYY": "02/01/2006",
	"YYYY-MM-DD": "2006-01-02",
	"DD.MM.YYYY": "02.01.2006",
}

// Parser converts one bank's CSV statements.
type Parser struct {
	profile *profile.BankProfile
	year    int
	logger  logging.Logger
}

// New creates a CSV statement parser for the given profile. The tax year
// resolves year-less date cells, so re-running a past year stays stable.
func New(p *profile.BankProfile, year int, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{
		profile: p,
		year:    year,
		logger:  logger.WithField(logging.FieldBank, p.BankName),
	}
}

// ParseFile parses the CSV statement at path.
func (p *Parser) ParseFile(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	txs, err := p.Parse(f)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Parsed transactions from CSV statement",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return txs, nil
}

// Parse reads a CSV statement from r. Malformed rows are skipped, not fatal.
func (p *Parser) Parse(r io.Reader) ([]models.Transaction, error) {
	format := p.profile.CSVFormat
	if format == nil {
		return nil, &parsererror.ProfileError{
			Bank:   p.profile.BankName,
			Reason: "profile does not support CSV ingestion",
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var txs []models.Transaction
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.WithError(err).Warn("Skipping malformed CSV row")
			continue
		}
		rowNum++
		if rowNum == 1 && format.HasHeader {
			continue
		}
		if len(row) < len(format.Columns) {
			continue
		}

		tx, ok := p.parseRow(row, format)
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (p *Parser) parseRow(row []string, format *profile.CSVFormat) (models.Transaction, bool) {
	tx := models.Transaction{
		Source:  p.profile.BankName,
		Section: csvSectionName,
	}

	var debit, credit decimal.Decimal
	var haveDebitCredit, haveAmount bool

	for field, idx := range format.Columns {
		if idx < 0 || idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])

		switch field {
		case profile.FieldTransactionDate:
			iso, ok := normalizeDate(value, format.DateFormat, p.year)
			if !ok {
				p.logger.Debug("Skipping CSV row with unparseable date",
					logging.Field{Key: "cell", Value: value})
				return tx, false
			}
			tx.TransactionDate = iso
		case profile.FieldPostingDate:
			if iso, ok := normalizeDate(value, format.DateFormat, p.year); ok {
				tx.PostingDate = iso
			}
		case profile.FieldDescription:
			tx.Description = value
		case profile.FieldDebit:
			if d, ok := models.ParseAmount(value); ok {
				debit = d
			}
			haveDebitCredit = true
		case profile.FieldCredit:
			if c, ok := models.ParseAmount(value); ok {
				credit = c
			}
			haveDebitCredit = true
		case profile.FieldAmount:
			if a, ok := models.ParseAmount(value); ok {
				tx.Amount = a
				haveAmount = true
			}
		}
	}

	// Debit/credit columns normalize to the unified signed amount:
	// charges positive, payments negative.
	if haveDebitCredit {
		tx.Amount = debit.Sub(credit)
		haveAmount = true
	}
	if !haveAmount {
		return tx, false
	}

	if format.SkipFooterRows {
		desc := strings.ToUpper(tx.Description)
		if strings.Contains(desc, "TOTAL") || strings.Contains(desc, "BALANCE") {
			return tx, false
		}
	}
	return tx, true
}

// normalizeDate converts a statement date cell to ISO form using the
// profile's declared layout, falling back to common statement forms. Year-less
// cells resolve against the tax year being ingested, never the wall clock.
func normalizeDate(value, declaredFormat string, year int) (string, bool) {
	if value == "" {
		return "", false
	}
	if layout, ok := dateLayouts[declaredFormat]; ok {
		if t, err := time.Parse(layout, value); err == nil {
			return dateutils.ToISODate(t), true
		}
	}
	if t, err := time.Parse(dateutils.DateLayoutISO, value); err == nil {
		return dateutils.ToISODate(t), true
	}
	if t, ok := dateutils.ParseStatementDate(value, year, nil); ok {
		return dateutils.ToISODate(t), true
	}
	return "", false
}

// ConvertToCSV parses a statement file and writes the audit CSV.
func (p *Parser) ConvertToCSV(inputFile, outputFile string) error {
	txs, err := p.ParseFile(inputFile)
	if err != nil {
		return err
	}
	return common.WriteTransactionsToCSV(txs, outputFile)
}
