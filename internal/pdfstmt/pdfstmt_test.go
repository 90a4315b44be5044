package pdfstmt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/geometry"
	"taxbook/internal/logging"
	"taxbook/internal/pdfpage"
	"taxbook/internal/profile"
)

// statementRow is one synthetic purchase line for page building.
type statementRow struct {
	date   string
	desc   string
	amount string
}

// buildStatementPage lays out a synthetic statement page: bank anchor in the
// top strip, optional period line, the PURCHASES section with column headers,
// data rows and a TOTAL footer closed by a rule line.
func buildStatementPage(number int, withPeriod bool, rows []statementRow) *geometry.Page {
	page := &geometry.Page{Number: number, Width: 612, Height: 792}

	page.Words = append(page.Words,
		word("TRIANGLE", 50, 40, 120, 50),
		word("MASTERCARD", 125, 40, 220, 50),
	)
	if withPeriod {
		for i, s := range []string{"Dec", "26", "to", "Jan", "25,", "2024"} {
			x := 300 + float64(i)*35
			page.Words = append(page.Words, word(s, x, 60, x+30, 70))
		}
	}

	page.Words = append(page.Words,
		word("PURCHASES", 50, 200, 140, 210),
		word("DATE", 50, 230, 85, 240),
		word("DESCRIPTION", 150, 230, 250, 240),
		word("AMOUNT($)", 450, 230, 520, 240),
	)
	page.Lines = append(page.Lines, geometry.Line{X0: 50, X1: 550, Top: 244})

	top := 260.0
	for _, r := range rows {
		page.Words = append(page.Words,
			word(r.date[:3], 50, top, 72, top+10),
			word(r.date[4:], 76, top, 90, top+10),
			word(r.desc, 150, top, 150+float64(len(r.desc))*6, top+10),
			word(r.amount, 460, top, 500, top+10),
		)
		top += 20
	}

	page.Lines = append(page.Lines, geometry.Line{X0: 50, X1: 550, Top: top + 2})
	page.Words = append(page.Words,
		word("TOTAL", 60, top+10, 100, top+20),
		word("PURCHASES", 105, top+10, 190, top+20),
		word("157.49", 460, top+10, 505, top+20),
	)
	return page
}

func triangleProfile() *profile.BankProfile {
	return &profile.BankProfile{
		BankName:         "triangle",
		PageHeaderAnchor: "TRIANGLE MASTERCARD",
		Sections: []profile.Section{
			{
				SectionName:   "Purchases",
				MatchText:     "PURCHASES",
				HeaderLabels:  []string{"DATE", "DESCRIPTION", "AMOUNT"},
				FooterRowText: "TOTAL PURCHASES",
				Columns: map[string]int{
					profile.FieldTransactionDate: 0,
					profile.FieldDescription:     1,
					profile.FieldAmount:          2,
				},
			},
		},
	}
}

func TestParseMultiPageStatement(t *testing.T) {
	src := &pdfpage.StaticSource{Content: []*geometry.Page{
		buildStatementPage(1, true, []statementRow{
			{date: "Dec 27", desc: "ESSO", amount: "45.00"},
			{date: "Jan 03", desc: "7-ELEVEN", amount: "12.50"},
		}),
		buildStatementPage(2, false, []statementRow{
			{date: "Jan 05", desc: "TIM-HORTONS", amount: "8.25"},
		}),
	}}

	parser := New(triangleProfile(), 2024, logging.NewMockLogger())
	txs, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, txs, 3, "rows merge across pages without duplication")

	assert.Equal(t, "2023-12-27", txs[0].TransactionDate)
	assert.Equal(t, "ESSO", txs[0].Description)
	assert.True(t, decimal.RequireFromString("45.00").Equal(txs[0].Amount))
	assert.Equal(t, "Purchases", txs[0].Section)
	assert.Equal(t, "triangle", txs[0].Source)

	assert.Equal(t, "2024-01-03", txs[1].TransactionDate)
	assert.Equal(t, "2024-01-05", txs[2].TransactionDate)
	assert.Equal(t, "TIM-HORTONS", txs[2].Description)
}

func TestParseSkipsPagesWithoutAnchor(t *testing.T) {
	promo := &geometry.Page{Number: 2, Width: 612, Height: 792}
	promo.Words = append(promo.Words,
		word("PURCHASES", 50, 200, 140, 210),
		word("offers", 50, 300, 100, 310),
	)

	src := &pdfpage.StaticSource{Content: []*geometry.Page{
		buildStatementPage(1, true, []statementRow{{date: "Dec 27", desc: "ESSO", amount: "45.00"}}),
		promo,
	}}

	parser := New(triangleProfile(), 2024, logging.NewMockLogger())
	txs, err := parser.Parse(src)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestParseSkipListedPages(t *testing.T) {
	prof := triangleProfile()
	prof.SkipPagesByIndex = []int{2}

	src := &pdfpage.StaticSource{Content: []*geometry.Page{
		buildStatementPage(1, true, []statementRow{{date: "Dec 27", desc: "ESSO", amount: "45.00"}}),
		buildStatementPage(2, false, []statementRow{{date: "Jan 05", desc: "SKIPPED", amount: "9.99"}}),
	}}

	parser := New(prof, 2024, logging.NewMockLogger())
	txs, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "ESSO", txs[0].Description)
}

func TestParseSourceError(t *testing.T) {
	src := &pdfpage.StaticSource{Err: assert.AnError}
	parser := New(triangleProfile(), 2024, logging.NewMockLogger())
	_, err := parser.Parse(src)
	assert.Error(t, err)
}
