package pdfstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/geometry"
)

func TestExtractTableWithBreakpoints(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			word("Dec", 50, 260, 72, 270),
			word("27", 76, 260, 90, 270),
			word("ESSO", 150, 260, 190, 270),
			word("45.00", 460, 260, 500, 270),
			word("Jan", 50, 280, 72, 290),
			word("03", 76, 280, 90, 290),
			word("7-ELEVEN", 150, 280, 225, 290),
			word("12.50", 460, 280, 500, 290),
		},
	}
	edges := &TableEdges{
		Data:        geometry.BoundingBox{X0: 40, Top: 250, X1: 560, Bottom: 300},
		Breakpoints: []float64{120, 350},
	}

	grid := ExtractTable(page, edges)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"Dec 27", "ESSO", "45.00"}, grid[0])
	assert.Equal(t, []string{"Jan 03", "7-ELEVEN", "12.50"}, grid[1])
}

func TestExtractTableWhitespaceFallback(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			// "Dec" and "27" sit close together; the description and amount
			// are separated by wide gaps.
			word("Dec", 50, 260, 72, 270),
			word("27", 76, 260, 90, 270),
			word("ESSO", 150, 260, 190, 270),
			word("45.00", 460, 260, 500, 270),
		},
	}
	edges := &TableEdges{Data: geometry.BoundingBox{X0: 40, Top: 250, X1: 560, Bottom: 300}}

	grid := ExtractTable(page, edges)
	require.Len(t, grid, 1)
	assert.Equal(t, []string{"Dec 27", "ESSO", "45.00"}, grid[0])
}

func TestExtractTableCandidatesSplitsBlocks(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			// First block: one row.
			word("summary", 50, 260, 110, 270),
			// Second block after a large vertical gap: two rows.
			word("Dec", 50, 400, 72, 410),
			word("45.00", 460, 400, 500, 410),
			word("Jan", 50, 420, 72, 430),
			word("12.50", 460, 420, 500, 430),
		},
	}
	edges := &TableEdges{Data: geometry.BoundingBox{X0: 40, Top: 250, X1: 560, Bottom: 500}}

	candidates := ExtractTableCandidates(page, edges)
	require.Len(t, candidates, 2)
	assert.Len(t, candidates[0], 1)
	assert.Len(t, candidates[1], 2)

	best := LargestCandidate(candidates)
	require.Len(t, best, 2)
	assert.Equal(t, "Dec", best[0][0])

	assert.Nil(t, LargestCandidate(nil))
}
