package geometry

import (
	"math"
	"sort"
	"strings"
)

const (
	// ThinRectHeight is the maximum height at which a filled rectangle is
	// treated as a rendered rule line rather than a box.
	ThinRectHeight = 3.0

	// MinLineLength is the minimum span for a rule segment; anything shorter
	// is discarded as rendering noise.
	MinLineLength = 1.0

	// lineGroupStep is the rounding applied to top coordinates when grouping
	// colinear segments and when assembling words into visual text lines.
	lineGroupStep = 3.0
)

// Page holds the extracted content of one PDF page.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Words  []Word
	Lines  []Line
	Rects  []Rect
}

// Bounds returns the full page box.
func (p *Page) Bounds() BoundingBox {
	return BoundingBox{X0: 0, Top: 0, X1: p.Width, Bottom: p.Height}
}

// WordsWithin returns the words whose center point falls inside the box,
// in reading order (top to bottom, then left to right). An invalid box yields
// an empty collection.
func (p *Page) WordsWithin(box BoundingBox) []Word {
	if !box.Valid() {
		return nil
	}
	var out []Word
	for _, w := range p.Words {
		if box.ContainsPoint(w.Box.CenterX(), w.Box.CenterY()) {
			out = append(out, w)
		}
	}
	sortWords(out)
	return out
}

// TextWithin renders the words inside the box as text, one string per visual
// line, words separated by single spaces.
func (p *Page) TextWithin(box BoundingBox) string {
	rows := p.TextLinesWithin(box)
	return strings.Join(rows, "\n")
}

// TextLinesWithin renders the words inside the box grouped into visual lines.
func (p *Page) TextLinesWithin(box BoundingBox) []string {
	words := p.WordsWithin(box)
	if len(words) == 0 {
		return nil
	}
	var rows []string
	var current []string
	currentKey := groupKey(words[0].Box.Top)
	for _, w := range words {
		key := groupKey(w.Box.Top)
		if key != currentKey {
			rows = append(rows, strings.Join(current, " "))
			current = current[:0]
			currentKey = key
		}
		current = append(current, w.Text)
	}
	rows = append(rows, strings.Join(current, " "))
	return rows
}

// HorizontalLinesWithin returns the logical horizontal rule lines inside the
// box. Lines rendered as thin filled rectangles (height <= ThinRectHeight)
// are included, colinear segments sharing a rounded top are merged into one
// line spanning the leftmost to the rightmost segment, and segments shorter
// than MinLineLength are dropped.
func (p *Page) HorizontalLinesWithin(box BoundingBox) []Line {
	if !box.Valid() {
		return nil
	}
	var segments []Line
	for _, l := range p.Lines {
		if box.ContainsPoint((l.X0+l.X1)/2, l.Top) {
			segments = append(segments, l)
		}
	}
	for _, r := range p.Rects {
		if r.Box.Height() <= ThinRectHeight && box.ContainsPoint(r.Box.CenterX(), r.Box.CenterY()) {
			segments = append(segments, Line{X0: r.Box.X0, X1: r.Box.X1, Top: r.Box.Top})
		}
	}
	return MergeColinear(segments)
}

// VerticalLinesWithin returns logical vertical rule lines inside the box.
// Rules rendered as thin filled rectangles (width <= ThinRectHeight) are
// included; colinear segments sharing a rounded x merge into one line.
func (p *Page) VerticalLinesWithin(box BoundingBox) []VLine {
	if !box.Valid() {
		return nil
	}
	groups := make(map[float64]*VLine)
	var keys []float64
	add := func(x, top, bottom float64) {
		if bottom-top < MinLineLength {
			return
		}
		if !box.ContainsPoint(x, (top+bottom)/2) {
			return
		}
		key := math.Round(x/lineGroupStep) * lineGroupStep
		if g, ok := groups[key]; ok {
			g.Top = min(g.Top, top)
			g.Bottom = max(g.Bottom, bottom)
		} else {
			groups[key] = &VLine{Top: top, Bottom: bottom, X: x}
			keys = append(keys, key)
		}
	}
	for _, r := range p.Rects {
		if r.Box.Width() <= ThinRectHeight {
			add(r.Box.CenterX(), r.Box.Top, r.Box.Bottom)
		}
	}
	sort.Float64s(keys)
	out := make([]VLine, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

// RectsWithin returns the rectangles whose center falls inside the box,
// excluding thin rects already treated as lines.
func (p *Page) RectsWithin(box BoundingBox) []Rect {
	if !box.Valid() {
		return nil
	}
	var out []Rect
	for _, r := range p.Rects {
		if r.Box.Height() > ThinRectHeight && box.ContainsPoint(r.Box.CenterX(), r.Box.CenterY()) {
			out = append(out, r)
		}
	}
	return out
}

// SearchText finds case-insensitive occurrences of needle in the page text and
// returns the bounding box of each match, topmost first. Matches may span
// several words on one visual line but never cross lines.
func (p *Page) SearchText(needle string) []BoundingBox {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}
	words := append([]Word(nil), p.Words...)
	sortWords(words)

	var matches []BoundingBox
	for start := 0; start < len(words); {
		end := start + 1
		key := groupKey(words[start].Box.Top)
		for end < len(words) && groupKey(words[end].Box.Top) == key {
			end++
		}
		matches = append(matches, searchLine(words[start:end], needle)...)
		start = end
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Top < matches[j].Top })
	return matches
}

// searchLine matches needle against one visual line of words.
func searchLine(words []Word, needle string) []BoundingBox {
	var sb strings.Builder
	offsets := make([]int, len(words)) // start offset of each word in the line string
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		offsets[i] = sb.Len()
		sb.WriteString(w.Text)
	}
	line := strings.ToLower(sb.String())

	var out []BoundingBox
	for from := 0; ; {
		idx := strings.Index(line[from:], needle)
		if idx < 0 {
			break
		}
		idx += from
		matchEnd := idx + len(needle)

		box := BoundingBox{X0: math.Inf(1), Top: math.Inf(1), X1: math.Inf(-1), Bottom: math.Inf(-1)}
		covered := false
		for i, w := range words {
			wordEnd := offsets[i] + len(w.Text)
			if offsets[i] < matchEnd && wordEnd > idx {
				box = box.Union(w.Box)
				covered = true
			}
		}
		if covered {
			out = append(out, box)
		}
		from = matchEnd
	}
	return out
}

// MergeColinear groups horizontal segments by rounded top coordinate and
// merges each group into a single logical line.
func MergeColinear(segments []Line) []Line {
	groups := make(map[float64]*Line)
	var keys []float64
	for _, s := range segments {
		if s.Length() < MinLineLength {
			continue
		}
		key := groupKey(s.Top)
		if g, ok := groups[key]; ok {
			g.X0 = min(g.X0, s.X0)
			g.X1 = max(g.X1, s.X1)
		} else {
			seg := s
			groups[key] = &seg
			keys = append(keys, key)
		}
	}
	sort.Float64s(keys)
	out := make([]Line, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

func sortWords(words []Word) {
	sort.SliceStable(words, func(i, j int) bool {
		ki, kj := groupKey(words[i].Box.Top), groupKey(words[j].Box.Top)
		if ki != kj {
			return ki < kj
		}
		return words[i].Box.X0 < words[j].Box.X0
	})
}

func groupKey(top float64) float64 {
	return math.Round(top/lineGroupStep) * lineGroupStep
}
