// Package pdfpage loads PDF files into the geometry content model. It is the
// only package that talks to the PDF library; everything above it works on
// geometry.Page values, which keeps the layout-recovery code testable against
// synthetic pages.
package pdfpage

import (
	"fmt"
	"math"
	"sort"

	"github.com/ledongthuc/pdf"

	"taxbook/internal/geometry"
)

// Source yields the pages of one statement document.
type Source interface {
	Pages() ([]*geometry.Page, error)
}

// FileSource reads pages from a PDF file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a Source for the given PDF path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Pages loads and converts every page of the document.
func (s *FileSource) Pages() ([]*geometry.Page, error) {
	f, reader, err := pdf.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	var pages []*geometry.Page
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, convertPage(p, i))
	}
	return pages, nil
}

// StaticSource serves a fixed set of pages. Tests use it in place of a real
// document, mirroring how production code swaps extractors for mocks.
type StaticSource struct {
	Content []*geometry.Page
	Err     error
}

// Pages returns the configured pages or error.
func (s *StaticSource) Pages() ([]*geometry.Page, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Content, nil
}

func convertPage(p pdf.Page, number int) *geometry.Page {
	width, height := pageSize(p)
	page := &geometry.Page{
		Number: number,
		Width:  width,
		Height: height,
	}

	content := p.Content()
	page.Words = assembleWords(content.Text, height)
	for _, r := range content.Rect {
		// PDF rect coordinates are bottom-up; flip to the top-left model.
		box := geometry.BoundingBox{
			X0:     min(r.Min.X, r.Max.X),
			X1:     max(r.Min.X, r.Max.X),
			Top:    height - max(r.Min.Y, r.Max.Y),
			Bottom: height - min(r.Min.Y, r.Max.Y),
		}
		page.Rects = append(page.Rects, geometry.Rect{Box: box})
	}
	return page
}

// letterWidth and letterHeight are the US Letter defaults used when a page
// carries no usable MediaBox.
const (
	letterWidth  = 612.0
	letterHeight = 792.0
)

func pageSize(p pdf.Page) (float64, float64) {
	mediaBox := p.V.Key("MediaBox")
	if mediaBox.Kind() != pdf.Array || mediaBox.Len() < 4 {
		return letterWidth, letterHeight
	}
	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v := mediaBox.Index(i)
		switch v.Kind() {
		case pdf.Integer:
			coords[i] = float64(v.Int64())
		case pdf.Real:
			coords[i] = v.Float64()
		default:
			return letterWidth, letterHeight
		}
	}
	w := coords[2] - coords[0]
	h := coords[3] - coords[1]
	if w <= 0 || h <= 0 {
		return letterWidth, letterHeight
	}
	return w, h
}

// assembleWords groups positioned text fragments into words. Fragments are
// often single glyphs; adjacent fragments on the same baseline merge when the
// horizontal gap is small relative to the font size.
func assembleWords(texts []pdf.Text, pageHeight float64) []geometry.Word {
	if len(texts) == 0 {
		return nil
	}
	frags := append([]pdf.Text(nil), texts...)
	sort.SliceStable(frags, func(i, j int) bool {
		yi, yj := math.Round(frags[i].Y), math.Round(frags[j].Y)
		if yi != yj {
			return yi > yj // larger Y is higher on the page
		}
		return frags[i].X < frags[j].X
	})

	var words []geometry.Word
	var cur *geometry.Word
	var curEnd float64
	var curY float64

	flush := func() {
		if cur != nil && cur.Text != "" {
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, t := range frags {
		if t.S == "" {
			continue
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 10
		}
		gapLimit := max(1.0, fontSize*0.3)
		sameLine := cur != nil && math.Abs(t.Y-curY) <= 2
		if t.S == " " {
			flush()
			continue
		}
		if sameLine && t.X-curEnd <= gapLimit {
			cur.Text += t.S
			cur.Box.X1 = t.X + t.W
			cur.Box.Top = min(cur.Box.Top, pageHeight-t.Y-fontSize)
			cur.Box.Bottom = max(cur.Box.Bottom, pageHeight-t.Y)
		} else {
			flush()
			cur = &geometry.Word{
				Text: t.S,
				Box: geometry.BoundingBox{
					X0:     t.X,
					X1:     t.X + t.W,
					Top:    pageHeight - t.Y - fontSize,
					Bottom: pageHeight - t.Y,
				},
			}
			curY = t.Y
		}
		curEnd = t.X + t.W
	}
	flush()
	return words
}
