package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/parsererror"
)

const triangleJSON = `{
  "bank_name": "triangle",
  "page_header_anchor": "TRIANGLE MASTERCARD",
  "skip_pages_by_index": [2],
  "sections": [
    {
      "section_name": "Purchases",
      "match_text": "PURCHASES",
      "header_labels": ["DATE", "DESCRIPTION", "AMOUNT"],
      "footer_row_text": "TOTAL PURCHASES",
      "columns": {"transaction_date": 0, "description": 1, "amount": 2}
    },
    {
      "section_name": "Payments",
      "match_text": "PAYMENTS",
      "amount_sign": "inverted",
      "columns": {"transaction_date": 0, "description": 1, "amount": 2}
    }
  ],
  "table_settings": {"explicit_vertical_lines": false, "left_margin": 50}
}`

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadJSONProfile(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "triangle.json", triangleJSON)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "triangle", p.BankName)
	assert.Equal(t, "TRIANGLE MASTERCARD", p.PageHeaderAnchor)
	assert.True(t, p.ShouldSkipPage(2))
	assert.False(t, p.ShouldSkipPage(1))
	assert.True(t, p.IsCreditCard(), "credit card is the default source type")

	require.Len(t, p.Sections, 2)
	purchases := p.Sections[0]
	idx, ok := purchases.ColumnIndex(FieldDescription)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 3, purchases.ExpectedColumnCount())
	assert.False(t, purchases.Inverted())
	assert.True(t, p.Sections[1].Inverted())

	require.NotNil(t, p.TableSettings)
	require.NotNil(t, p.TableSettings.LeftMargin)
	assert.InDelta(t, 50, *p.TableSettings.LeftMargin, 0.001)
}

func TestLoadYAMLProfile(t *testing.T) {
	doc := `
bank_name: wealthsimple
source_type: bank_account
csv_format:
  date_format: YYYY-MM-DD
  has_header: true
  columns:
    transaction_date: 0
    description: 1
    amount: 2
`
	path := writeProfile(t, t.TempDir(), "wealthsimple.yaml", doc)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wealthsimple", p.BankName)
	assert.False(t, p.IsCreditCard())
	require.NotNil(t, p.CSVFormat)
	assert.True(t, p.CSVFormat.HasHeader)
}

func TestLoadBankResolvesExtension(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "triangle.json", triangleJSON)

	p, err := LoadBank(dir, "triangle")
	require.NoError(t, err)
	assert.Equal(t, "triangle", p.BankName)

	_, err = LoadBank(dir, "absent")
	require.Error(t, err)
	var profErr *parsererror.ProfileError
	require.ErrorAs(t, err, &profErr)
	assert.Equal(t, "absent", profErr.Bank)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile BankProfile
		reason  string
	}{
		{
			name:    "missing bank name",
			profile: BankProfile{},
			reason:  "missing bank_name",
		},
		{
			name:    "no sections and no csv format",
			profile: BankProfile{BankName: "x"},
			reason:  "neither sections nor csv_format",
		},
		{
			name: "section without name",
			profile: BankProfile{
				BankName: "x",
				Sections: []Section{{MatchText: "A", Columns: map[string]int{"amount": 0}}},
			},
			reason: "missing section_name",
		},
		{
			name: "section without match text",
			profile: BankProfile{
				BankName: "x",
				Sections: []Section{{SectionName: "A", Columns: map[string]int{"amount": 0}}},
			},
			reason: "missing match_text",
		},
		{
			name: "section without columns",
			profile: BankProfile{
				BankName: "x",
				Sections: []Section{{SectionName: "A", MatchText: "A"}},
			},
			reason: "declares no columns",
		},
		{
			name: "bad amount sign",
			profile: BankProfile{
				BankName: "x",
				Sections: []Section{{
					SectionName: "A",
					MatchText:   "A",
					Columns:     map[string]int{"amount": 0},
					AmountSign:  "sideways",
				}},
			},
			reason: "unknown amount_sign",
		},
		{
			name: "csv format without columns",
			profile: BankProfile{
				BankName:  "x",
				CSVFormat: &CSVFormat{},
			},
			reason: "csv_format declares no columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.profile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestLoadUnparseableDocument(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "broken.json", `{"bank_name": `)
	_, err := Load(path)
	require.Error(t, err)
	var profErr *parsererror.ProfileError
	assert.ErrorAs(t, err, &profErr)
}
