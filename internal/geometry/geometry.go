// Package geometry provides the page-relative content model used for PDF
// statement layout recovery: bounding boxes, positioned words, horizontal rule
// lines and filled rectangles, with crop and search operations over them.
//
// Coordinates follow the top-left convention: x grows rightward, top/bottom
// grow downward. All boxes are page-relative; nothing in this package is ever
// expressed relative to a table.
package geometry

import "fmt"

// BoundingBox is a page-relative rectangle (x0, top, x1, bottom).
type BoundingBox struct {
	X0     float64
	Top    float64
	X1     float64
	Bottom float64
}

// Valid reports whether the box encloses a positive area. Boxes failing this
// are rejected before any crop or extraction.
func (b BoundingBox) Valid() bool {
	return b.X1 > b.X0 && b.Bottom > b.Top
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal midpoint.
func (b BoundingBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical midpoint.
func (b BoundingBox) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// ContainsPoint reports whether (x, y) lies inside the box, bounds inclusive.
func (b BoundingBox) ContainsPoint(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Top && y <= b.Bottom
}

// Intersects reports whether the two boxes overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.X0 <= o.X1 && o.X0 <= b.X1 && b.Top <= o.Bottom && o.Top <= b.Bottom
}

// Union returns the smallest box covering both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		X0:     min(b.X0, o.X0),
		Top:    min(b.Top, o.Top),
		X1:     max(b.X1, o.X1),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f, %.1f)", b.X0, b.Top, b.X1, b.Bottom)
}

// Word is a positioned run of text on a page.
type Word struct {
	Text string
	Box  BoundingBox
}

// Line is a logical horizontal rule line.
type Line struct {
	X0  float64
	X1  float64
	Top float64
}

// Length returns the horizontal span of the line.
func (l Line) Length() float64 { return l.X1 - l.X0 }

// Rect is a filled or stroked rectangle primitive.
type Rect struct {
	Box BoundingBox
}

// VLine is a logical vertical rule line.
type VLine struct {
	Top    float64
	Bottom float64
	X      float64
}

// Length returns the vertical span of the line.
func (l VLine) Length() float64 { return l.Bottom - l.Top }
