// Package pipeline orchestrates a full tax-year run: discover statements,
// ingest them into canonical transactions, classify, map and export the
// bookkeeping workbook.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taxbook/internal/common"
	"taxbook/internal/config"
	"taxbook/internal/csvstmt"
	"taxbook/internal/export"
	"taxbook/internal/fileutils"
	"taxbook/internal/logging"
	"taxbook/internal/mapping"
	"taxbook/internal/models"
	"taxbook/internal/parsererror"
	"taxbook/internal/pdfpage"
	"taxbook/internal/pdfstmt"
	"taxbook/internal/profile"
	"taxbook/internal/rules"
)

// Pipeline runs year-level ingestion and bookkeeping export.
type Pipeline struct {
	cfg    *config.Config
	logger logging.Logger
	runID  string
}

// New creates a pipeline. Every log line of a run carries its generated run
// ID, so interleaved runs stay separable in aggregated logs.
func New(cfg *config.Config, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	runID := uuid.NewString()
	return &Pipeline{
		cfg:    cfg,
		logger: logger.WithField(logging.FieldRun, runID),
		runID:  runID,
	}
}

// RunID returns the unique identifier of this pipeline instance.
func (p *Pipeline) RunID() string {
	return p.runID
}

// IngestResult is the outcome of ingesting one bank's statements for a year.
type IngestResult struct {
	Transactions []models.Transaction
	CreditCard   bool
	FilesParsed  int
	FilesFailed  int
}

// IngestYear parses every statement for one bank under data/<year>/ and
// writes per-file audit CSVs under output/<year>/<bank>/. A file that fails
// to parse is logged and skipped; one bad statement must not sink the run.
func (p *Pipeline) IngestYear(year int, bank string) (*IngestResult, error) {
	prof, err := profile.LoadBank(p.cfg.Profiles.Directory, bank)
	if err != nil {
		return nil, err
	}

	yearDir := filepath.Join(p.cfg.Data.Directory, strconv.Itoa(year))
	if !fileutils.DirectoryExists(yearDir) {
		return nil, fmt.Errorf("input directory not found: %s", yearDir)
	}

	files, err := fileutils.ListFilesByExtension(yearDir, ".pdf", ".csv")
	if err != nil {
		return nil, err
	}
	log := p.logger.WithField(logging.FieldBank, bank)
	log.Info("Discovered statement files",
		logging.Field{Key: logging.FieldYear, Value: year},
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	auditDir := filepath.Join(p.cfg.Data.OutputDirectory, strconv.Itoa(year), bank)
	result := &IngestResult{CreditCard: prof.IsCreditCard()}

	for _, file := range files {
		txs, err := p.parseStatement(file, prof, year, bank)
		if err != nil {
			log.WithError(err).Error("Failed to parse statement",
				logging.Field{Key: logging.FieldFile, Value: file})
			result.FilesFailed++
			continue
		}

		auditFile := filepath.Join(auditDir, fileutils.BaseNameWithoutExt(file)+".csv")
		if err := common.WriteTransactionsToCSV(txs, auditFile); err != nil {
			log.WithError(err).Error("Failed to write audit CSV",
				logging.Field{Key: logging.FieldFile, Value: auditFile})
			result.FilesFailed++
			continue
		}
		result.Transactions = append(result.Transactions, txs...)
		result.FilesParsed++
	}

	sortByDate(result.Transactions)
	return result, nil
}

// parseStatement routes one file to the PDF or CSV parser, normalizing PDF
// filenames along the way.
func (p *Pipeline) parseStatement(file string, prof *profile.BankProfile, year int, bank string) ([]models.Transaction, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".pdf":
		file = p.normalizeFilename(file, bank)
		return pdfstmt.New(prof, year, p.logger).ParseFile(file)
	case ".csv":
		return csvstmt.New(prof, year, p.logger).ParseFile(file)
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       file,
			ExpectedFormat: ".pdf or .csv",
			Msg:            "unsupported statement type",
		}
	}
}

// normalizeFilename renames a statement to the <bank>-<mon>.pdf convention
// using the statement date printed on page one. Normalization is best-effort;
// on any failure the original path is kept.
func (p *Pipeline) normalizeFilename(path, bank string) string {
	pages, err := pdfpage.NewFileSource(path).Pages()
	if err != nil || len(pages) == 0 {
		p.logger.WithError(err).Warn("Could not read statement for filename normalization",
			logging.Field{Key: logging.FieldFile, Value: path})
		return path
	}

	date, ok := pdfstmt.DetectStatementDate(pages[0].TextWithin(pages[0].Bounds()))
	if !ok {
		return path
	}

	newName := fmt.Sprintf("%s-%s.pdf", bank, strings.ToLower(date.Format("Jan")))
	if filepath.Base(path) == newName {
		return path
	}
	newPath := filepath.Join(filepath.Dir(path), newName)
	if err := os.Rename(path, newPath); err != nil {
		p.logger.WithError(err).Warn("Could not rename statement",
			logging.Field{Key: logging.FieldFile, Value: path})
		return path
	}
	p.logger.Info("Normalized statement filename",
		logging.Field{Key: logging.FieldFile, Value: newPath})
	return newPath
}

// IngestAll ingests every bank's statements for the year and writes the
// unified CSV. The returned map records which sources are credit cards.
func (p *Pipeline) IngestAll(year int, banks []string) ([]models.Transaction, map[string]bool, error) {
	var all []models.Transaction
	creditCardSource := make(map[string]bool)
	for _, bank := range banks {
		result, err := p.IngestYear(year, bank)
		if err != nil {
			return nil, nil, err
		}
		creditCardSource[bank] = result.CreditCard
		all = append(all, result.Transactions...)
	}
	sortByDate(all)

	unified := filepath.Join(p.cfg.Data.OutputDirectory, strconv.Itoa(year), "credit_cards.csv")
	if err := common.WriteTransactionsToCSV(all, unified); err != nil {
		return nil, nil, err
	}
	return all, creditCardSource, nil
}

// RunYear executes the full pipeline for one tax year across the given
// banks: ingest, unified CSV, classify, map and export.
func (p *Pipeline) RunYear(year int, banks []string) error {
	log := p.logger.WithField(logging.FieldYear, year)

	all, creditCardSource, err := p.IngestAll(year, banks)
	if err != nil {
		return err
	}

	ruleSet, err := rules.Load(p.cfg.Rules.Path)
	if err != nil {
		// A bad rules document aborts the run outright.
		return err
	}
	log.Info("Loaded allocation rules",
		logging.Field{Key: logging.FieldFile, Value: p.cfg.Rules.Path},
		logging.Field{Key: logging.FieldCount, Value: len(ruleSet)})

	classifier := rules.NewClassifier(ruleSet, p.logger)
	rows := make([]mapping.Row, 0, len(all))
	reviewCount := 0
	for _, tx := range all {
		cls := classifier.Classify(tx)
		if cls.NeedsReview() {
			reviewCount++
		}
		rows = append(rows, mapping.MapTransaction(tx, cls, creditCardSource[tx.Source]))
	}

	workbook := filepath.Join(p.cfg.Data.OutputDirectory, strconv.Itoa(year),
		fmt.Sprintf("bookkeeping_%d.xlsx", year))
	if err := export.WriteWorkbook(rows, workbook, p.logger); err != nil {
		return err
	}

	log.Info("Pipeline complete",
		logging.Field{Key: logging.FieldFile, Value: workbook},
		logging.Field{Key: logging.FieldCount, Value: len(all)},
		logging.Field{Key: "needs_review", Value: reviewCount})
	return nil
}

func sortByDate(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].TransactionDate < txs[j].TransactionDate
	})
}
