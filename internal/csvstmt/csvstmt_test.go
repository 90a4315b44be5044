package csvstmt

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/logging"
	"taxbook/internal/parsererror"
	"taxbook/internal/profile"
)

func csvProfile() *profile.BankProfile {
	return &profile.BankProfile{
		BankName: "wealthsimple",
		CSVFormat: &profile.CSVFormat{
			DateFormat: "YYYY-MM-DD",
			HasHeader:  true,
			Columns: map[string]int{
				profile.FieldTransactionDate: 0,
				profile.FieldDescription:     1,
				profile.FieldDebit:           2,
				profile.FieldCredit:          3,
			},
		},
	}
}

func TestParseDebitCreditStatement(t *testing.T) {
	doc := strings.Join([]string{
		"Date,Description,Debit,Credit",
		"2024-01-03,ESSO CIRCLE K,45.00,",
		"2024-01-10,PAYROLL DEPOSIT,,1500.00",
	}, "\n")

	p := New(csvProfile(), 2024, logging.NewMockLogger())
	txs, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "2024-01-03", txs[0].TransactionDate)
	assert.Equal(t, "ESSO CIRCLE K", txs[0].Description)
	assert.True(t, decimal.RequireFromString("45.00").Equal(txs[0].Amount))
	assert.Equal(t, "wealthsimple", txs[0].Source)
	assert.Equal(t, "Transactions", txs[0].Section)

	// Credits come out negative in the unified signed amount.
	assert.True(t, decimal.RequireFromString("-1500.00").Equal(txs[1].Amount))
}

func TestParseSingleAmountColumn(t *testing.T) {
	prof := &profile.BankProfile{
		BankName: "generic",
		CSVFormat: &profile.CSVFormat{
			DateFormat: "MM/DD/YYYY",
			Columns: map[string]int{
				profile.FieldTransactionDate: 0,
				profile.FieldDescription:     1,
				profile.FieldAmount:          2,
			},
		},
	}

	doc := "01/03/2024,COFFEE,4.50\n01/04/2024,REFUND,-4.50\n"
	p := New(prof, 2024, logging.NewMockLogger())
	txs, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-01-03", txs[0].TransactionDate)
	assert.True(t, txs[1].Amount.IsNegative())
}

func TestParseSkipsBadRows(t *testing.T) {
	doc := strings.Join([]string{
		"Date,Description,Debit,Credit",
		"not-a-date,MYSTERY,10.00,",
		"short,row",
		"2024-01-03,GOOD ROW,10.00,",
	}, "\n")

	p := New(csvProfile(), 2024, logging.NewMockLogger())
	txs, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "GOOD ROW", txs[0].Description)
}

func TestParseSkipFooterRows(t *testing.T) {
	prof := csvProfile()
	prof.CSVFormat.SkipFooterRows = true

	doc := strings.Join([]string{
		"Date,Description,Debit,Credit",
		"2024-01-03,ESSO,45.00,",
		"2024-01-31,TOTAL FOR PERIOD,45.00,",
		"2024-01-31,CLOSING BALANCE,45.00,",
	}, "\n")

	p := New(prof, 2024, logging.NewMockLogger())
	txs, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "ESSO", txs[0].Description)
}

func TestParseWithoutCSVFormat(t *testing.T) {
	prof := &profile.BankProfile{BankName: "pdf-only"}
	p := New(prof, 2024, logging.NewMockLogger())

	_, err := p.Parse(strings.NewReader("a,b,c\n"))
	require.Error(t, err)
	var profErr *parsererror.ProfileError
	require.ErrorAs(t, err, &profErr)
	assert.Equal(t, "pdf-only", profErr.Bank)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		value    string
		format   string
		expected string
		ok       bool
	}{
		{"01/03/2024", "MM/DD/YYYY", "2024-01-03", true},
		{"03.01.2024", "DD.MM.YYYY", "2024-01-03", true},
		{"2024-01-03", "", "2024-01-03", true},
		// Year-less cells take the ingestion year, not the current year.
		{"12/27", "", "2023-12-27", true},
		{"Dec 27", "", "2023-12-27", true},
		{"", "YYYY-MM-DD", "", false},
		{"garbage", "YYYY-MM-DD", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeDate(tt.value, tt.format, 2023)
		assert.Equal(t, tt.ok, ok, tt.value)
		if tt.ok {
			assert.Equal(t, tt.expected, got, tt.value)
		}
	}
}

func TestParseResolvesYearlessDatesAgainstTaxYear(t *testing.T) {
	prof := &profile.BankProfile{
		BankName: "generic",
		CSVFormat: &profile.CSVFormat{
			Columns: map[string]int{
				profile.FieldTransactionDate: 0,
				profile.FieldDescription:     1,
				profile.FieldAmount:          2,
			},
		},
	}

	p := New(prof, 2022, logging.NewMockLogger())
	txs, err := p.Parse(strings.NewReader("12/27,ESSO,45.00\n"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2022-12-27", txs[0].TransactionDate)
}
