// Package pdfstmt recovers transaction tables from PDF statement pages and
// parses them into canonical transactions. It combines text anchors from the
// bank profile with rule-line geometry to locate, validate and extract each
// configured section.
package pdfstmt

import (
	"sort"

	"taxbook/internal/geometry"
	"taxbook/internal/profile"
)

const (
	// leftMarginTolerance bounds how far a header match may sit from the
	// profile's left margin and still count as left-aligned.
	leftMarginTolerance = 5.0

	// footerLineMaxGap is the vertical window above footer text in which the
	// closing rule line must appear.
	footerLineMaxGap = 15.0

	// footerCorridorSlack lets footer text sit slightly past the header's
	// horizontal corridor.
	footerCorridorSlack = 10.0
)

// XRange is a horizontal corridor on the page.
type XRange struct {
	X0 float64
	X1 float64
}

// FooterMatch is a validated footer anchor: the footer text and the rule line
// closing the table above it.
type FooterMatch struct {
	TextBox geometry.BoundingBox
	Line    geometry.Line
}

// FindSectionHeader searches the page for the section's header anchor text.
// When several matches exist and a left margin is supplied, matches not
// left-aligned with it are dropped; the topmost remaining match wins.
// Returns nil when the text does not appear.
func FindSectionHeader(page *geometry.Page, matchText string, leftMargin *float64) *geometry.BoundingBox {
	matches := page.SearchText(matchText)
	if len(matches) == 0 {
		return nil
	}
	if leftMargin != nil {
		var aligned []geometry.BoundingBox
		for _, m := range matches {
			if m.X0 >= *leftMargin-leftMarginTolerance && m.X0 <= *leftMargin+leftMarginTolerance {
				aligned = append(aligned, m)
			}
		}
		if len(aligned) > 0 {
			matches = aligned
		}
	}
	top := matches[0]
	for _, m := range matches[1:] {
		if m.Top < top.Top {
			top = m
		}
	}
	return &top
}

// FindSectionFooter locates the footer anchor inside the given search area.
// A candidate passes three gates: the text must sit inside the area, a
// horizontal rule line must lie within footerLineMaxGap above the text and
// span at least the text's own width, and (when a header corridor is given)
// the text must fall inside or just past that corridor. The topmost candidate
// passing every gate is returned; nil when none does.
func FindSectionFooter(page *geometry.Page, footerText string, searchArea geometry.BoundingBox, headerXRange *XRange) *FooterMatch {
	if !searchArea.Valid() {
		return nil
	}
	for _, textBox := range page.SearchText(footerText) {
		if !searchArea.Intersects(textBox) || textBox.CenterY() < searchArea.Top || textBox.CenterY() > searchArea.Bottom {
			continue
		}

		if headerXRange != nil {
			if textBox.X0 < headerXRange.X0-footerCorridorSlack || textBox.X0 > headerXRange.X1+footerCorridorSlack {
				continue
			}
		}

		lineArea := geometry.BoundingBox{
			X0:     searchArea.X0,
			Top:    textBox.Top - footerLineMaxGap,
			X1:     searchArea.X1,
			Bottom: textBox.Top,
		}
		line, ok := ruleLineAbove(page, lineArea, textBox)
		if !ok {
			continue
		}
		return &FooterMatch{TextBox: textBox, Line: line}
	}
	return nil
}

// ruleLineAbove finds the lowest qualifying rule line in the area: it must
// horizontally overlap the footer text and span at least the text's width.
func ruleLineAbove(page *geometry.Page, area geometry.BoundingBox, textBox geometry.BoundingBox) (geometry.Line, bool) {
	var best geometry.Line
	found := false
	for _, l := range page.HorizontalLinesWithin(area) {
		if l.X1 < textBox.X0 || l.X0 > textBox.X1 {
			continue
		}
		if l.Length() < textBox.Width() {
			continue
		}
		if !found || l.Top > best.Top {
			best = l
			found = true
		}
	}
	return best, found
}

// sectionAnchor pairs a located section header with its vertical extent on
// the page: the floor is the next section's header top, or the page bottom.
type sectionAnchor struct {
	section   *profile.Section
	headerBox geometry.BoundingBox
	floor     float64
}

// locateSections finds every configured section present on the page and
// orders the results by vertical position, assigning each a floor boundary.
func locateSections(page *geometry.Page, sections []profile.Section, leftMargin *float64) []sectionAnchor {
	var anchors []sectionAnchor
	for i := range sections {
		s := &sections[i]
		box := FindSectionHeader(page, s.MatchText, leftMargin)
		if box == nil {
			continue
		}
		anchors = append(anchors, sectionAnchor{section: s, headerBox: *box})
	}
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].headerBox.Top < anchors[j].headerBox.Top
	})
	for i := range anchors {
		if i+1 < len(anchors) {
			anchors[i].floor = anchors[i+1].headerBox.Top
		} else {
			anchors[i].floor = page.Height
		}
	}
	return anchors
}
