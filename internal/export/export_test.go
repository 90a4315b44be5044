package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/logging"
	"taxbook/internal/mapping"
)

func sampleRows() []mapping.Row {
	return []mapping.Row{
		{
			Cells: map[string]interface{}{
				mapping.ColDate:          "2024-01-03",
				mapping.ColItem:          "ESSO CIRCLE K",
				"Vehicle Expenses":       decimal.RequireFromString("22.50"),
				mapping.ColWithdrawalsCR: decimal.RequireFromString("22.50"),
			},
		},
		{
			Cells: map[string]interface{}{
				mapping.ColDate:          "2024-01-05",
				mapping.ColItem:          "UNKNOWN MERCHANT",
				mapping.ColWithdrawalsCR: decimal.RequireFromString("99.00"),
				mapping.ColNotes:         "Please, review unclassified transaction: UNKNOWN MERCHANT",
			},
			Highlight: true,
		},
	}
}

func TestWorkbookLayout(t *testing.T) {
	wb, err := NewWorkbook(logging.NewMockLogger())
	require.NoError(t, err)

	n, err := wb.WriteRows(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f := wb.File()

	// Header row sits at the fixed offset with the schema names in order.
	v, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, mapping.ColDate, v)
	v, err = f.GetCellValue(SheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, mapping.ColItem, v)
	v, err = f.GetCellValue(SheetName, "AB3")
	require.NoError(t, err)
	assert.Equal(t, mapping.ColNotes, v)

	// Data starts one row below the header.
	v, err = f.GetCellValue(SheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "ESSO CIRCLE K", v)
	v, err = f.GetCellValue(SheetName, "C5")
	require.NoError(t, err)
	assert.Equal(t, "99", v)

	// The TOTAL column carries its row formula where no value was mapped.
	formula, err := f.GetCellFormula(SheetName, "AA4")
	require.NoError(t, err)
	assert.Equal(t, "=+D4+SUM(I4:Z4)+E4-C4-F4+G4-H4", formula)

	// The totals row below the data sums each numeric column.
	formula, err = f.GetCellFormula(SheetName, "C6")
	require.NoError(t, err)
	assert.Equal(t, "=SUM(C4:C5)", formula)
}

func TestWorkbookMutesIgnoredRows(t *testing.T) {
	wb, err := NewWorkbook(logging.NewMockLogger())
	require.NoError(t, err)

	rows := []mapping.Row{{
		Cells: map[string]interface{}{
			mapping.ColDate:  "2024-01-07",
			mapping.ColItem:  "PAYMENT THANK YOU",
			mapping.ColNotes: "Ignored transaction: PAYMENT THANK YOU -> 300.00",
		},
		Ignore: true,
	}}
	_, err = wb.WriteRows(rows)
	require.NoError(t, err)

	styleID, err := wb.File().GetCellStyle(SheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, wb.ignoreStyle, styleID)
}

func TestWorkbookNoTotalsWithoutRows(t *testing.T) {
	wb, err := NewWorkbook(logging.NewMockLogger())
	require.NoError(t, err)

	n, err := wb.WriteRows(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	formula, err := wb.File().GetCellFormula(SheetName, "C4")
	require.NoError(t, err)
	assert.Empty(t, formula)
}

func TestWriteWorkbookSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookkeeping_2024.xlsx")
	err := WriteWorkbook(sampleRows(), path, logging.NewMockLogger())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
