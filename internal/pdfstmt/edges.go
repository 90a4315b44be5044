package pdfstmt

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"taxbook/internal/geometry"
	"taxbook/internal/profile"
)

const (
	// headerZoneHeight bounds how far below the section anchor the column
	// header labels may sit.
	headerZoneHeight = 50.0

	// headerLabelPad separates the header band from the first data row.
	headerLabelPad = 2.0

	// edgeInset keeps outer vertical rules from being read as column breaks.
	edgeInset = 2.0
)

// TableEdges is the resolved geometry for one section instance on one page.
// Computed fresh per (page, section) pair; layouts shift slightly between
// pages, so edges are never reused.
type TableEdges struct {
	Overall geometry.BoundingBox
	Header  geometry.BoundingBox
	Data    geometry.BoundingBox
	Footer  *geometry.BoundingBox

	// Breakpoints are the inferred x coordinates separating columns,
	// ascending. Empty when extraction will rely on whitespace clustering.
	Breakpoints []float64

	// Inferred is true when breakpoints came from header-label geometry
	// rather than explicit rules; such tables get post-extraction validation.
	Inferred bool
}

// ResolveTableEdges combines the located header anchor, the section floor and
// an optional footer match into a crop region, inferring column breakpoints
// when the profile draws no explicit rules. Returns nil only when no valid
// table region can be derived from the header; a missing footer or missing
// breakpoints degrade to the floor boundary and clustering fallbacks instead.
func ResolveTableEdges(page *geometry.Page, section *profile.Section, headerBox geometry.BoundingBox, floor float64, footer *FooterMatch, settings *profile.TableSettings) *TableEdges {
	bottom := floor
	var footerBox *geometry.BoundingBox
	if footer != nil && footer.Line.Top > headerBox.Bottom && footer.Line.Top < floor {
		bottom = footer.Line.Top
		fb := footer.TextBox
		footerBox = &fb
	}

	region := geometry.BoundingBox{
		X0:     0,
		Top:    headerBox.Bottom,
		X1:     page.Width,
		Bottom: bottom,
	}
	if !region.Valid() {
		return nil
	}

	x0, x1, ok := horizontalExtent(page, region)
	if !ok {
		return nil
	}
	region.X0, region.X1 = x0, x1

	edges := &TableEdges{Overall: region, Footer: footerBox}

	headerBand := geometry.BoundingBox{
		X0:     region.X0,
		Top:    region.Top,
		X1:     region.X1,
		Bottom: min(region.Top+headerZoneHeight, region.Bottom),
	}

	anchors := alignHeaderLabels(page, headerBand, section.HeaderLabels)
	headerBottom := headerBand.Top
	for _, a := range anchors {
		if a.Box.Bottom+headerLabelPad > headerBottom {
			headerBottom = a.Box.Bottom + headerLabelPad
		}
	}

	edges.Header = geometry.BoundingBox{X0: region.X0, Top: region.Top, X1: region.X1, Bottom: headerBottom}
	edges.Data = geometry.BoundingBox{X0: region.X0, Top: headerBottom, X1: region.X1, Bottom: region.Bottom}
	if !edges.Data.Valid() {
		return nil
	}

	if settings != nil && settings.ExplicitVerticalLines {
		edges.Breakpoints = explicitBreakpoints(page, edges.Data)
		return edges
	}

	if len(section.HeaderLabels) > 1 {
		edges.Breakpoints = breakpointsFromAnchors(anchors)
		edges.Inferred = true
	}
	return edges
}

// horizontalExtent derives the table's x span from the widest rule line in
// the region, falling back to the extent of the words present.
func horizontalExtent(page *geometry.Page, region geometry.BoundingBox) (float64, float64, bool) {
	var widest *geometry.Line
	for _, l := range page.HorizontalLinesWithin(region) {
		if widest == nil || l.Length() > widest.Length() {
			line := l
			widest = &line
		}
	}
	if widest != nil {
		return widest.X0, widest.X1, true
	}

	words := page.WordsWithin(region)
	if len(words) == 0 {
		return 0, 0, false
	}
	x0, x1 := words[0].Box.X0, words[0].Box.X1
	for _, w := range words[1:] {
		x0 = min(x0, w.Box.X0)
		x1 = max(x1, w.Box.X1)
	}
	return x0, x1, true
}

// labelAnchor is a header label aligned to a word on the page.
type labelAnchor struct {
	LabelIndex int
	Box        geometry.BoundingBox
}

// alignHeaderLabels aligns each configured header label to an extracted word.
// Pass one walks labels in order with a left-to-right cursor, trying the
// label's longest token first so distinct labels cannot reuse the same word.
// Pass two retries unmatched labels with a fuzzy search over the horizontal
// segment remaining between their neighbours.
func alignHeaderLabels(page *geometry.Page, band geometry.BoundingBox, labels []string) []labelAnchor {
	words := page.WordsWithin(band)
	if len(words) == 0 || len(labels) == 0 {
		return nil
	}

	anchors := make([]*labelAnchor, len(labels))
	cursor := band.X0

	for li, label := range labels {
		tokens := labelTokensLongestFirst(label)
		for _, token := range tokens {
			re := tokenPattern(token)
			matched := false
			for _, w := range words {
				if w.Box.X0 < cursor {
					continue
				}
				if re.MatchString(w.Text) {
					anchors[li] = &labelAnchor{LabelIndex: li, Box: w.Box}
					cursor = w.Box.X1
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}

	// Fuzzy fallback for labels strict alignment missed.
	for li := range labels {
		if anchors[li] != nil {
			continue
		}
		segX0, segX1 := band.X0, band.X1
		for j := li - 1; j >= 0; j-- {
			if anchors[j] != nil {
				segX0 = anchors[j].Box.X1
				break
			}
		}
		for j := li + 1; j < len(labels); j++ {
			if anchors[j] != nil {
				segX1 = anchors[j].Box.X0
				break
			}
		}
		for _, w := range words {
			if w.Box.X0 < segX0 || w.Box.X1 > segX1 {
				continue
			}
			if fuzzyLabelMatch(labels[li], w.Text) {
				anchors[li] = &labelAnchor{LabelIndex: li, Box: w.Box}
				break
			}
		}
	}

	var out []labelAnchor
	for _, a := range anchors {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// fuzzyLabelMatch reports whether the word plausibly renders part of the
// label despite OCR noise or glyph merging.
func fuzzyLabelMatch(label, word string) bool {
	for _, token := range labelTokensLongestFirst(label) {
		if len(token) < 3 {
			continue
		}
		if fuzzy.MatchNormalizedFold(token, word) || fuzzy.MatchNormalizedFold(word, token) {
			return true
		}
	}
	return false
}

// breakpointsFromAnchors places each column boundary at the midpoint of the
// horizontal gap between adjacent label anchors.
func breakpointsFromAnchors(anchors []labelAnchor) []float64 {
	if len(anchors) < 2 {
		return nil
	}
	bps := make([]float64, 0, len(anchors)-1)
	for i := 1; i < len(anchors); i++ {
		bps = append(bps, (anchors[i-1].Box.X1+anchors[i].Box.X0)/2)
	}
	return bps
}

// explicitBreakpoints reads column boundaries from drawn vertical rules,
// ignoring the table's outer frame.
func explicitBreakpoints(page *geometry.Page, data geometry.BoundingBox) []float64 {
	var bps []float64
	for _, vl := range page.VerticalLinesWithin(data) {
		if vl.X <= data.X0+edgeInset || vl.X >= data.X1-edgeInset {
			continue
		}
		bps = append(bps, vl.X)
	}
	return bps
}

// labelTokensLongestFirst splits a label into tokens ordered by descending
// length, breaking ties by original position.
func labelTokensLongestFirst(label string) []string {
	fields := strings.FieldsFunc(label, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t'
	})
	tokens := append([]string(nil), fields...)
	for i := 1; i < len(tokens); i++ {
		for j := i; j > 0 && len(tokens[j]) > len(tokens[j-1]); j-- {
			tokens[j], tokens[j-1] = tokens[j-1], tokens[j]
		}
	}
	return tokens
}

// tokenPattern matches one label token against a single word, tolerating a
// trailing parenthetical for AMOUNT-style tokens.
func tokenPattern(token string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.TrimSpace(token))
	return regexp.MustCompile(`(?i)^` + quoted + `(?:\([^)]*\))?$`)
}
