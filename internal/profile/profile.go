// Package profile defines bank statement profiles: the per-bank configuration
// that drives section location, table extraction and row parsing.
package profile

// Logical field names usable in Section.Columns and CSVFormat.Columns.
const (
	FieldTransactionDate = "transaction_date"
	FieldPostingDate     = "posting_date"
	FieldDescription     = "description"
	FieldAmount          = "amount"
	FieldDebit           = "debit"
	FieldCredit          = "credit"
	FieldBalance         = "balance"
)

// Amount sign conventions, per section. The default treats unsigned values as
// positive charges; "inverted" flips the sign after CR/DR handling (used for
// payment/credit sections that print unsigned amounts).
const (
	SignChargePositive = "charge_positive"
	SignInverted       = "inverted"
)

// Section describes one named table region expected on statement pages.
type Section struct {
	SectionName string `json:"section_name" yaml:"section_name"`

	// MatchText is the header anchor searched for on each page.
	MatchText string `json:"match_text" yaml:"match_text"`

	// Columns maps logical field names to cell indexes in the extracted row.
	// For geometry-inferred sections the indexes refer to the inferred column
	// order (which follows HeaderLabels); fields absent from the map are not
	// extracted for this section.
	Columns map[string]int `json:"columns" yaml:"columns"`

	// HeaderLabels are the expected column header strings, in order. They
	// drive semantic validation and, for sections without explicit column
	// rules, breakpoint inference.
	HeaderLabels []string `json:"header_labels,omitempty" yaml:"header_labels,omitempty"`

	// FooterRowText anchors the bottom of the table, e.g. "TOTAL PURCHASES".
	FooterRowText string `json:"footer_row_text,omitempty" yaml:"footer_row_text,omitempty"`

	// AmountSign selects the sign convention; empty means SignChargePositive.
	AmountSign string `json:"amount_sign,omitempty" yaml:"amount_sign,omitempty"`
}

// ColumnIndex returns the cell index of a logical field.
func (s *Section) ColumnIndex(field string) (int, bool) {
	idx, ok := s.Columns[field]
	return idx, ok
}

// ExpectedColumnCount is the number of cells a well-formed data row carries.
func (s *Section) ExpectedColumnCount() int {
	if len(s.HeaderLabels) > 0 {
		return len(s.HeaderLabels)
	}
	return len(s.Columns)
}

// Inverted reports whether the section flips unsigned amounts.
func (s *Section) Inverted() bool {
	return s.AmountSign == SignInverted
}

// TableSettings carries extraction strategy hints for a bank.
type TableSettings struct {
	// ExplicitVerticalLines is true when statements draw real column rules,
	// making breakpoint inference unnecessary.
	ExplicitVerticalLines bool `json:"explicit_vertical_lines" yaml:"explicit_vertical_lines"`

	// LeftMargin, when set, filters section header matches to those
	// left-aligned with it.
	LeftMargin *float64 `json:"left_margin,omitempty" yaml:"left_margin,omitempty"`
}

// CSVFormat describes the column layout of a CSV statement export.
type CSVFormat struct {
	Columns        map[string]int `json:"columns" yaml:"columns"`
	DateFormat     string         `json:"date_format,omitempty" yaml:"date_format,omitempty"`
	HasHeader      bool           `json:"has_header,omitempty" yaml:"has_header,omitempty"`
	SkipFooterRows bool           `json:"skip_footer_rows,omitempty" yaml:"skip_footer_rows,omitempty"`
}

// BankProfile is the full configuration for one statement source. It is
// loaded once per ingestion run and treated as immutable.
type BankProfile struct {
	BankName string    `json:"bank_name" yaml:"bank_name"`
	Sections []Section `json:"sections" yaml:"sections"`

	// SkipPagesByIndex lists 1-based page numbers never containing data.
	SkipPagesByIndex []int `json:"skip_pages_by_index,omitempty" yaml:"skip_pages_by_index,omitempty"`

	// PageHeaderAnchor, when set, must appear in a page's top strip for the
	// page to be scanned at all.
	PageHeaderAnchor string `json:"page_header_anchor,omitempty" yaml:"page_header_anchor,omitempty"`

	TableSettings *TableSettings `json:"table_settings,omitempty" yaml:"table_settings,omitempty"`

	// CSVFormat is present for banks that also (or only) export CSV.
	CSVFormat *CSVFormat `json:"csv_format,omitempty" yaml:"csv_format,omitempty"`

	// SourceType distinguishes credit cards from bank accounts for mapping.
	SourceType string `json:"source_type,omitempty" yaml:"source_type,omitempty"`
}

// ShouldSkipPage reports whether the page number is on the profile skip list.
func (p *BankProfile) ShouldSkipPage(pageNumber int) bool {
	for _, n := range p.SkipPagesByIndex {
		if n == pageNumber {
			return true
		}
	}
	return false
}

// IsCreditCard reports whether this source is a credit card.
func (p *BankProfile) IsCreditCard() bool {
	return p.SourceType == "" || p.SourceType == "credit_card"
}
