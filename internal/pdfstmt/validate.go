package pdfstmt

import (
	"taxbook/internal/geometry"
	"taxbook/internal/profile"
)

const (
	// Semantic validation thresholds: headers with more than two labels must
	// hit 75% of them; two-label headers are noisier and only need 50%.
	labelRatioStrict  = 0.75
	labelRatioRelaxed = 0.50

	// Post-extraction sampling bounds.
	gridSampleCap = 20
	gridRatioMinN = 4
	gridPassRatio = 0.40
	gridCellSlack = 1 // tolerate one merged or split column
)

// ValidateStructure is the structural gate on a candidate table region: it
// accepts when the resolved footer rule line falls inside the region, or when
// a direct re-scan finds at least one horizontal rule line or rectangle.
func ValidateStructure(page *geometry.Page, edges *TableEdges) bool {
	if edges == nil || !edges.Overall.Valid() {
		return false
	}
	if edges.Footer != nil {
		return true
	}
	if len(page.HorizontalLinesWithin(edges.Overall)) > 0 {
		return true
	}
	return len(page.RectsWithin(edges.Overall)) > 0
}

// ValidateSemantics is the semantic gate: the header zone's rendered text
// must contain enough of the configured header labels. Sections configuring
// no labels pass vacuously.
func ValidateSemantics(page *geometry.Page, edges *TableEdges, section *profile.Section) bool {
	labels := section.HeaderLabels
	if len(labels) == 0 {
		return true
	}

	headerText := page.TextWithin(edges.Header)
	hits := 0
	for _, label := range labels {
		if LabelPattern(label).MatchString(headerText) {
			hits++
		}
	}

	threshold := labelRatioRelaxed
	if len(labels) > 2 {
		threshold = labelRatioStrict
	}
	return float64(hits)/float64(len(labels)) >= threshold
}

// ValidateExtractedGrid re-checks the extracted row grid, independent of page
// geometry. A sampled row passes when it has no fewer than expected-1
// non-empty cells; the grid is accepted when at least one sampled row passes
// and, for samples of four or more rows, at least 40% of them do.
func ValidateExtractedGrid(rows [][]string, expectedColumns int) bool {
	if len(rows) == 0 || expectedColumns <= 0 {
		return false
	}

	sample := rows
	if len(sample) > gridSampleCap {
		sample = sample[:gridSampleCap]
	}

	passing := 0
	for _, row := range sample {
		nonEmpty := 0
		for _, cell := range row {
			if cell != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= expectedColumns-gridCellSlack {
			passing++
		}
	}

	if passing == 0 {
		return false
	}
	if len(sample) >= gridRatioMinN {
		return float64(passing)/float64(len(sample)) >= gridPassRatio
	}
	return true
}
