package pdfstmt

import (
	"math"
	"sort"
	"strings"

	"taxbook/internal/geometry"
)

const (
	// whitespaceGap is the horizontal gap treated as a column separator when
	// no breakpoints are available.
	whitespaceGap = 12.0

	// blockGap is the vertical gap separating distinct table candidates
	// during multi-table discovery.
	blockGap = 30.0
)

// ExtractTable renders the table's data region into a cell grid using the
// resolved column breakpoints, falling back to whitespace clustering per row
// when none were resolved. Rows come out in top-to-bottom order.
func ExtractTable(page *geometry.Page, edges *TableEdges) [][]string {
	rows := wordRows(page, edges.Data)
	return gridFromRows(rows, edges.Breakpoints)
}

// ExtractTableCandidates is the multi-table discovery fallback: the data
// region is split into blocks at large vertical gaps and each block becomes
// its own candidate grid. The caller selects the largest.
func ExtractTableCandidates(page *geometry.Page, edges *TableEdges) [][][]string {
	rows := wordRows(page, edges.Data)
	if len(rows) == 0 {
		return nil
	}

	var blocks [][]wordRow
	current := []wordRow{rows[0]}
	for _, r := range rows[1:] {
		prev := current[len(current)-1]
		if r.top-prev.top > blockGap {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, r)
	}
	blocks = append(blocks, current)

	grids := make([][][]string, 0, len(blocks))
	for _, b := range blocks {
		grids = append(grids, gridFromRows(b, edges.Breakpoints))
	}
	return grids
}

// LargestCandidate returns the candidate grid with the most rows, or nil.
func LargestCandidate(candidates [][][]string) [][]string {
	var best [][]string
	for _, c := range candidates {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

type wordRow struct {
	top   float64
	words []geometry.Word
}

// wordRows groups the words inside the box into visual rows.
func wordRows(page *geometry.Page, box geometry.BoundingBox) []wordRow {
	words := page.WordsWithin(box)
	if len(words) == 0 {
		return nil
	}
	var rows []wordRow
	currentKey := math.Round(words[0].Box.Top / 3)
	current := wordRow{top: words[0].Box.Top}
	for _, w := range words {
		key := math.Round(w.Box.Top / 3)
		if key != currentKey && len(current.words) > 0 {
			rows = append(rows, current)
			current = wordRow{top: w.Box.Top}
			currentKey = key
		}
		current.words = append(current.words, w)
	}
	rows = append(rows, current)
	for i := range rows {
		sort.SliceStable(rows[i].words, func(a, b int) bool {
			return rows[i].words[a].Box.X0 < rows[i].words[b].Box.X0
		})
	}
	return rows
}

func gridFromRows(rows []wordRow, breakpoints []float64) [][]string {
	grid := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(breakpoints) > 0 {
			grid = append(grid, cellsByBreakpoints(r.words, breakpoints))
		} else {
			grid = append(grid, cellsByWhitespace(r.words))
		}
	}
	return grid
}

// cellsByBreakpoints assigns each word to the column its center falls in.
func cellsByBreakpoints(words []geometry.Word, breakpoints []float64) []string {
	cells := make([][]string, len(breakpoints)+1)
	for _, w := range words {
		col := sort.SearchFloat64s(breakpoints, w.Box.CenterX())
		cells[col] = append(cells[col], w.Text)
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.Join(c, " ")
	}
	return out
}

// cellsByWhitespace splits a row into cells at large horizontal gaps.
func cellsByWhitespace(words []geometry.Word) []string {
	var out []string
	var current []string
	var prevEnd float64
	for i, w := range words {
		if i > 0 && w.Box.X0-prevEnd > whitespaceGap {
			out = append(out, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, w.Text)
		prevEnd = w.Box.X1
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}
