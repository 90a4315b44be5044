package pdfstmt

import (
	"strings"

	"taxbook/internal/common"
	"taxbook/internal/geometry"
	"taxbook/internal/logging"
	"taxbook/internal/models"
	"taxbook/internal/pdfpage"
	"taxbook/internal/profile"
)

// pageHeaderStripHeight is the vertical slice searched for the page-header
// anchor before a page is scanned at all.
const pageHeaderStripHeight = 150.0

// Parser extracts canonical transactions from one bank's PDF statements.
type Parser struct {
	profile *profile.BankProfile
	taxYear int
	logger  logging.Logger
}

// New creates a statement parser for the given profile and tax year.
func New(p *profile.BankProfile, taxYear int, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{
		profile: p,
		taxYear: taxYear,
		logger:  logger.WithField(logging.FieldBank, p.BankName),
	}
}

// ParseFile extracts all transactions from the PDF at path.
func (p *Parser) ParseFile(path string) ([]models.Transaction, error) {
	txs, err := p.Parse(pdfpage.NewFileSource(path))
	if err != nil {
		return nil, err
	}
	p.logger.Info("Extracted transactions from PDF",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return txs, nil
}

// Parse walks the statement's pages, locating and extracting each configured
// section. A page or section that yields no valid table is skipped silently;
// the shortfall surfaces through the transaction-count logging.
func (p *Parser) Parse(src pdfpage.Source) ([]models.Transaction, error) {
	pages, err := src.Pages()
	if err != nil {
		return nil, err
	}

	var period *models.StatementPeriod
	if len(pages) > 0 {
		period = DetectStatementPeriod(pages[0].TextWithin(pages[0].Bounds()))
	}

	var all []models.Transaction
	for _, page := range pages {
		if p.profile.ShouldSkipPage(page.Number) {
			continue
		}
		if !p.pageHasHeaderAnchor(page) {
			p.logger.Debug("Skipping page without header anchor",
				logging.Field{Key: logging.FieldPage, Value: page.Number})
			continue
		}
		all = append(all, p.parsePage(page, period)...)
	}
	return all, nil
}

// parsePage processes the sections present on one page, top to bottom.
func (p *Parser) parsePage(page *geometry.Page, period *models.StatementPeriod) []models.Transaction {
	var leftMargin *float64
	var settings *profile.TableSettings
	if p.profile.TableSettings != nil {
		settings = p.profile.TableSettings
		leftMargin = settings.LeftMargin
	}

	var txs []models.Transaction
	for _, anchor := range locateSections(page, p.profile.Sections, leftMargin) {
		section := anchor.section
		log := p.logger.WithFields(
			logging.Field{Key: logging.FieldPage, Value: page.Number},
			logging.Field{Key: logging.FieldSection, Value: section.SectionName},
		)

		var footer *FooterMatch
		if section.FooterRowText != "" {
			searchArea := geometry.BoundingBox{
				X0:     0,
				Top:    anchor.headerBox.Bottom,
				X1:     page.Width,
				Bottom: anchor.floor,
			}
			footer = FindSectionFooter(page, section.FooterRowText, searchArea, &XRange{
				X0: anchor.headerBox.X0,
				X1: anchor.headerBox.X1,
			})
		}

		edges := ResolveTableEdges(page, section, anchor.headerBox, anchor.floor, footer, settings)
		if edges == nil {
			log.Debug("No table region resolved")
			continue
		}
		if !ValidateStructure(page, edges) || !ValidateSemantics(page, edges, section) {
			log.Debug("Candidate region failed table validation")
			continue
		}

		grid := ExtractTable(page, edges)
		if len(grid) == 0 {
			grid = LargestCandidate(ExtractTableCandidates(page, edges))
		}
		if len(grid) == 0 {
			log.Debug("No rows extracted from table region")
			continue
		}
		if edges.Inferred && !ValidateExtractedGrid(grid, section.ExpectedColumnCount()) {
			log.Debug("Extracted grid failed post-extraction validation")
			continue
		}

		parsed := ParseRows(grid, section, p.profile.BankName, p.taxYear, period, log)
		log.Info("Parsed section rows",
			logging.Field{Key: logging.FieldCount, Value: len(parsed)})
		txs = append(txs, parsed...)
	}
	return txs
}

// pageHasHeaderAnchor applies the profile's cheap top-strip gate.
func (p *Parser) pageHasHeaderAnchor(page *geometry.Page) bool {
	anchor := p.profile.PageHeaderAnchor
	if anchor == "" {
		return true
	}
	strip := geometry.BoundingBox{X0: 0, Top: 0, X1: page.Width, Bottom: pageHeaderStripHeight}
	text := page.TextWithin(strip)
	return strings.Contains(strings.ToLower(text), strings.ToLower(anchor))
}

// ConvertToCSV parses the PDF at inputFile and writes the audit CSV.
func (p *Parser) ConvertToCSV(inputFile, outputFile string) error {
	txs, err := p.ParseFile(inputFile)
	if err != nil {
		return err
	}
	return common.WriteTransactionsToCSV(txs, outputFile)
}
