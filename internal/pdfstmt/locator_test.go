package pdfstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxbook/internal/geometry"
	"taxbook/internal/profile"
)

func word(text string, x0, top, x1, bottom float64) geometry.Word {
	return geometry.Word{Text: text, Box: geometry.BoundingBox{X0: x0, Top: top, X1: x1, Bottom: bottom}}
}

func TestFindSectionHeaderTopmost(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			word("PURCHASES", 50, 400, 140, 410),
			word("PURCHASES", 50, 200, 140, 210),
		},
	}

	box := FindSectionHeader(page, "PURCHASES", nil)
	require.NotNil(t, box)
	assert.Equal(t, 200.0, box.Top)

	assert.Nil(t, FindSectionHeader(page, "PAYMENTS", nil))
}

func TestFindSectionHeaderLeftMargin(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			// Topmost match is a mention inside running text, indented.
			word("PURCHASES", 200, 100, 290, 110),
			word("PURCHASES", 50, 300, 140, 310),
		},
	}

	margin := 50.0
	box := FindSectionHeader(page, "PURCHASES", &margin)
	require.NotNil(t, box)
	assert.Equal(t, 300.0, box.Top, "margin-aligned match beats topmost")

	// When no match aligns with the margin, the filter is waived.
	farMargin := 500.0
	box = FindSectionHeader(page, "PURCHASES", &farMargin)
	require.NotNil(t, box)
	assert.Equal(t, 100.0, box.Top)
}

func TestFindSectionFooterThreeGates(t *testing.T) {
	searchArea := geometry.BoundingBox{X0: 0, Top: 200, X1: 612, Bottom: 700}
	footerWords := []geometry.Word{
		word("TOTAL", 60, 500, 100, 510),
		word("PURCHASES", 105, 500, 190, 510),
	}

	t.Run("passes with rule line above", func(t *testing.T) {
		page := &geometry.Page{
			Width: 612, Height: 792,
			Words: footerWords,
			Lines: []geometry.Line{{X0: 50, X1: 550, Top: 492}},
		}
		m := FindSectionFooter(page, "TOTAL PURCHASES", searchArea, &XRange{X0: 50, X1: 550})
		require.NotNil(t, m)
		assert.Equal(t, 492.0, m.Line.Top)
		assert.Equal(t, 60.0, m.TextBox.X0)
	})

	t.Run("fails without rule line", func(t *testing.T) {
		page := &geometry.Page{Width: 612, Height: 792, Words: footerWords}
		assert.Nil(t, FindSectionFooter(page, "TOTAL PURCHASES", searchArea, nil))
	})

	t.Run("fails when line is too far above", func(t *testing.T) {
		page := &geometry.Page{
			Width: 612, Height: 792,
			Words: footerWords,
			Lines: []geometry.Line{{X0: 50, X1: 550, Top: 460}},
		}
		assert.Nil(t, FindSectionFooter(page, "TOTAL PURCHASES", searchArea, nil))
	})

	t.Run("fails when line is narrower than the text", func(t *testing.T) {
		page := &geometry.Page{
			Width: 612, Height: 792,
			Words: footerWords,
			Lines: []geometry.Line{{X0: 60, X1: 120, Top: 492}},
		}
		assert.Nil(t, FindSectionFooter(page, "TOTAL PURCHASES", searchArea, nil))
	})

	t.Run("fails outside the header corridor", func(t *testing.T) {
		page := &geometry.Page{
			Width: 612, Height: 792,
			Words: footerWords,
			Lines: []geometry.Line{{X0: 50, X1: 550, Top: 492}},
		}
		assert.Nil(t, FindSectionFooter(page, "TOTAL PURCHASES", searchArea, &XRange{X0: 300, X1: 550}))
	})

	t.Run("fails outside the search area", func(t *testing.T) {
		page := &geometry.Page{
			Width: 612, Height: 792,
			Words: footerWords,
			Lines: []geometry.Line{{X0: 50, X1: 550, Top: 492}},
		}
		narrow := geometry.BoundingBox{X0: 0, Top: 520, X1: 612, Bottom: 700}
		assert.Nil(t, FindSectionFooter(page, "TOTAL PURCHASES", narrow, nil))
	})
}

func TestLocateSectionsOrderAndFloors(t *testing.T) {
	page := &geometry.Page{
		Width:  612,
		Height: 792,
		Words: []geometry.Word{
			word("PAYMENTS", 50, 150, 130, 160),
			word("PURCHASES", 50, 400, 140, 410),
		},
	}
	sections := []profile.Section{
		{SectionName: "Purchases", MatchText: "PURCHASES", Columns: map[string]int{"amount": 0}},
		{SectionName: "Payments", MatchText: "PAYMENTS", Columns: map[string]int{"amount": 0}},
		{SectionName: "Missing", MatchText: "INTEREST CHARGES", Columns: map[string]int{"amount": 0}},
	}

	anchors := locateSections(page, sections, nil)
	require.Len(t, anchors, 2)
	assert.Equal(t, "Payments", anchors[0].section.SectionName)
	assert.Equal(t, 400.0, anchors[0].floor, "floor is the next section's header top")
	assert.Equal(t, "Purchases", anchors[1].section.SectionName)
	assert.Equal(t, page.Height, anchors[1].floor)
}
