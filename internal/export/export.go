// Package export renders mapped bookkeeping rows into a formatted Excel
// workbook.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"taxbook/internal/logging"
	"taxbook/internal/mapping"
)

const (
	// SheetName is the single worksheet the exporter writes.
	SheetName = "Bookkeeping"

	// headerRow and dataStartRow pin the fixed workbook layout: two blank
	// rows above the header leave room for a title block.
	headerRow    = 3
	dataStartRow = 4

	headerFill    = "9BC2E6"
	highlightFill = "FFF2CC"
	ignoreFont    = "808080"

	currencyFormat = "$#,##0.00"
)

// Workbook builds and populates the bookkeeping spreadsheet.
type Workbook struct {
	file   *excelize.File
	logger logging.Logger

	headerStyle    int
	currencyStyle  int
	highlightStyle int
	ignoreStyle    int
}

// NewWorkbook creates an empty bookkeeping workbook with its styles
// registered.
func NewWorkbook(logger logging.Logger) (*Workbook, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("error naming worksheet: %w", err)
	}

	wb := &Workbook{file: f, logger: logger}
	if err := wb.registerStyles(); err != nil {
		return nil, err
	}
	if err := wb.writeHeaders(); err != nil {
		return nil, err
	}
	return wb, nil
}

func (w *Workbook) registerStyles() error {
	thin := []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Calibri", Size: 12, Color: "000000"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	currency := currencyFormat
	w.currencyStyle, err = w.file.NewStyle(&excelize.Style{
		CustomNumFmt: &currency,
	})
	if err != nil {
		return fmt.Errorf("error creating currency style: %w", err)
	}

	w.highlightStyle, err = w.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightFill}},
	})
	if err != nil {
		return fmt.Errorf("error creating highlight style: %w", err)
	}

	w.ignoreStyle, err = w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: ignoreFont},
	})
	if err != nil {
		return fmt.Errorf("error creating ignore style: %w", err)
	}
	return nil
}

func (w *Workbook) writeHeaders() error {
	schema := mapping.Schema()
	for i, col := range schema {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(SheetName, cell, col.Name); err != nil {
			return fmt.Errorf("error writing header %q: %w", col.Name, err)
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(schema), headerRow)
	if err := w.file.SetCellStyle(SheetName, first, last, w.headerStyle); err != nil {
		return fmt.Errorf("error styling header row: %w", err)
	}

	// Readable defaults: wide item and notes columns, compact amounts.
	if err := w.file.SetColWidth(SheetName, "A", "A", 14); err != nil {
		return err
	}
	if err := w.file.SetColWidth(SheetName, "B", "B", 46); err != nil {
		return err
	}
	if err := w.file.SetColWidth(SheetName, "C", "AA", 13); err != nil {
		return err
	}
	return w.file.SetColWidth(SheetName, "AB", "AB", 50)
}

// WriteRows writes mapped rows starting at the fixed data row, appends the
// totals row, and returns the number of data rows written.
func (w *Workbook) WriteRows(rows []mapping.Row) (int, error) {
	schema := mapping.Schema()

	rowIdx := dataStartRow
	for _, row := range rows {
		if err := w.writeRow(rowIdx, schema, row); err != nil {
			return 0, err
		}
		rowIdx++
	}

	if len(rows) > 0 {
		if err := w.writeTotalsRow(schema, dataStartRow, rowIdx-1); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (w *Workbook) writeRow(rowIdx int, schema []mapping.Column, row mapping.Row) error {
	for i, col := range schema {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return err
		}

		value, present := row.Cells[col.Name]
		if col.HasFormula() && !present {
			if err := w.file.SetCellFormula(SheetName, cell, col.Formula(rowIdx)); err != nil {
				return fmt.Errorf("error writing formula at %s: %w", cell, err)
			}
			continue
		}
		if !present {
			continue
		}

		switch v := value.(type) {
		case decimal.Decimal:
			if err := w.file.SetCellValue(SheetName, cell, v.InexactFloat64()); err != nil {
				return fmt.Errorf("error writing cell %s: %w", cell, err)
			}
			if err := w.file.SetCellStyle(SheetName, cell, cell, w.currencyStyle); err != nil {
				return err
			}
		default:
			if err := w.file.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("error writing cell %s: %w", cell, err)
			}
		}
	}

	// Whole-row styling: review rows get the highlight fill, ignored rows
	// are muted so they read as struck from the books.
	rowStyle := 0
	switch {
	case row.Highlight:
		rowStyle = w.highlightStyle
	case row.Ignore:
		rowStyle = w.ignoreStyle
	}
	if rowStyle != 0 {
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(len(schema), rowIdx)
		if err := w.file.SetCellStyle(SheetName, first, last, rowStyle); err != nil {
			return fmt.Errorf("error styling row %d: %w", rowIdx, err)
		}
	}
	return nil
}

// writeTotalsRow sums the numeric columns (C through AA) below the data.
func (w *Workbook) writeTotalsRow(schema []mapping.Column, startRow, endRow int) error {
	totalsRow := endRow + 1
	for i, col := range schema {
		if col.Kind != mapping.KindCurrency && col.Kind != mapping.KindFormula {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, totalsRow)
		if err != nil {
			return err
		}
		formula := fmt.Sprintf("=SUM(%s%d:%s%d)", col.Letter, startRow, col.Letter, endRow)
		if err := w.file.SetCellFormula(SheetName, cell, formula); err != nil {
			return fmt.Errorf("error writing totals formula at %s: %w", cell, err)
		}
	}
	return nil
}

// Save writes the workbook to disk.
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	w.logger.Info("Saved bookkeeping workbook",
		logging.Field{Key: logging.FieldFile, Value: path})
	return nil
}

// File exposes the underlying workbook, mainly for tests.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// WriteWorkbook maps rows into a fresh workbook and saves it in one call.
func WriteWorkbook(rows []mapping.Row, path string, logger logging.Logger) error {
	wb, err := NewWorkbook(logger)
	if err != nil {
		return err
	}
	if _, err := wb.WriteRows(rows); err != nil {
		return err
	}
	return wb.Save(path)
}
