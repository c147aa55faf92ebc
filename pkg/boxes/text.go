package boxes

import (
	"strings"
	"unicode"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// TextStyle is what a text box needs from the resolved styles.
type TextStyle struct {
	Font       geom.FontSpec
	Color      geom.Color
	LineHeight int // 0 means the height of the font
}

func (s TextStyle) apply(g graphics.Graphics) graphics.Metrics {
	g.SetCurrentFont(s.Font)
	return g.FontMetrics()
}

// lineMetrics returns height and baseline of a line of text, spreading
// extra line height evenly above and below the glyphs.
func (s TextStyle) lineMetrics(m graphics.Metrics) (height, baseline int) {
	height = max(m.Height, s.LineHeight)
	baseline = (height-m.Ascent-m.Descent)/2 + m.Ascent
	return height, baseline
}

// TextContent shows a run of document text. Its range covers the
// characters it shows, both ends inclusive. Boxes produced by splitting a
// TextContent remember their origin so that line breaking can join them
// back.
type TextContent struct {
	base
	content  *dom.Content
	start    *dom.Position
	end      *dom.Position
	origin   *TextContent
	maxWidth int
	baseline int

	Style TextStyle
}

func NewTextContent(content *dom.Content, r dom.Range, style TextStyle) *TextContent {
	t := &TextContent{
		content: content,
		start:   content.CreatePosition(r.Start),
		end:     content.CreatePosition(r.End),
		Style:   style,
	}
	t.origin = t
	return t
}

func (t *TextContent) Content() *dom.Content { return t.content }

func (t *TextContent) StartOffset() int { return t.start.Offset() }

func (t *TextContent) EndOffset() int { return t.end.Offset() }

func (t *TextContent) Range() dom.Range {
	return dom.NewRange(t.StartOffset(), max(t.StartOffset(), t.EndOffset()))
}

func (t *TextContent) IsEmpty() bool { return t.EndOffset() < t.StartOffset() }

func (t *TextContent) IsAtStart(offset int) bool { return offset == t.StartOffset() }

func (t *TextContent) IsAtEnd(offset int) bool { return offset == t.EndOffset() }

// Text returns the characters shown by the box.
func (t *TextContent) Text() string {
	if t.IsEmpty() {
		return ""
	}
	return t.content.Text(t.Range())
}

func (t *TextContent) Baseline() int { return t.baseline }

func (t *TextContent) MaxWidth() int { return t.maxWidth }

func (t *TextContent) SetMaxWidth(width int) { t.maxWidth = width }

func (t *TextContent) Layout(g graphics.Graphics) {
	m := t.Style.apply(g)
	t.width = g.StringWidth(DisplayText(t.Text()))
	t.height, t.baseline = t.Style.lineMetrics(m)
}

func (t *TextContent) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight := t.width, t.height
	t.Layout(g)
	return invalidateParentIf(t, oldWidth != t.width || oldHeight != t.height)
}

func (t *TextContent) Paint(g graphics.Graphics) {
	m := t.Style.apply(g)
	g.SetColor(t.Style.Color)
	g.DrawString(strings.TrimRight(DisplayText(t.Text()), " "), 0, t.baseline-m.Ascent)
}

// Highlight paints the whole box inverted.
func (t *TextContent) Highlight(g graphics.Graphics, foreground, background geom.Color) {
	t.HighlightInside(g, t.StartOffset(), t.EndOffset(), foreground, background)
}

// HighlightInside paints the characters of [startOffset, endOffset] with
// the given colors, clipped to the box.
func (t *TextContent) HighlightInside(g graphics.Graphics, startOffset, endOffset int, foreground, background geom.Color) {
	start := max(startOffset, t.StartOffset())
	end := min(endOffset, t.EndOffset())
	if end < start {
		return
	}
	m := t.Style.apply(g)
	runes := []rune(DisplayText(t.Text()))
	widths := g.CharWidths(string(runes))
	from := start - t.StartOffset()
	to := end - t.StartOffset() + 1
	x := sum(widths[:from])
	width := sum(widths[from:to])
	g.SetColor(background)
	g.FillRect(x, 0, width, t.height)
	g.SetColor(foreground)
	g.DrawString(string(runes[from:to]), x, t.baseline-m.Ascent)
}

func (t *TextContent) Accept(v Visitor) { v.VisitTextContent(t) }

func (t *TextContent) InvisibleGapAtStart(g graphics.Graphics) int { return 0 }

func (t *TextContent) InvisibleGapAtEnd(g graphics.Graphics) int {
	text := DisplayText(t.Text())
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if len(trimmed) == len(text) {
		return 0
	}
	t.Style.apply(g)
	return g.StringWidth(text[len(trimmed):])
}

func (t *TextContent) LineWrappingAtStart() geom.LineWrappingRule { return geom.WrapAllowed }

// LineWrappingAtEnd requires a break after a text that ends with a line
// break, as preformatted lines do.
func (t *TextContent) LineWrappingAtEnd() geom.LineWrappingRule {
	if !t.IsEmpty() && t.content.IsLineBreak(t.EndOffset()) {
		return geom.WrapRequired
	}
	return geom.WrapAllowed
}

func (t *TextContent) CanJoin(other InlineBox) bool {
	o, ok := other.(*TextContent)
	return ok && o.origin == t.origin && t.LineWrappingAtEnd() != geom.WrapRequired
}

func (t *TextContent) Join(other InlineBox) bool {
	if !t.CanJoin(other) {
		return false
	}
	o := other.(*TextContent)
	t.end = o.end
	t.width += o.width
	return true
}

func (t *TextContent) CanSplit() bool { return !t.IsEmpty() }

func (t *TextContent) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	if t.IsEmpty() {
		return nil
	}
	t.Style.apply(g)
	text := t.Text()
	runes := []rune(text)
	split := splitPosition(runes, g.CharWidths(DisplayText(text)), headWidth, force)
	if split <= 0 || split >= len(runes) {
		return nil
	}
	splitOffset := t.StartOffset() + split
	tail := &TextContent{
		content: t.content,
		start:   t.content.CreatePosition(splitOffset),
		end:     t.end,
		origin:  t.origin,
		Style:   t.Style,
	}
	t.end = t.content.CreatePosition(splitOffset - 1)
	t.Layout(g)
	tail.Layout(g)
	return tail
}

// PositionArea returns the area of the character at offset. Offsets
// outside of the box are clamped to its first or last character.
func (t *TextContent) PositionArea(g graphics.Graphics, offset int) geom.Rectangle {
	t.Style.apply(g)
	widths := g.CharWidths(DisplayText(t.Text()))
	if len(widths) == 0 {
		return geom.Rectangle{Width: 1, Height: t.height}
	}
	i := min(max(offset-t.StartOffset(), 0), len(widths)-1)
	return geom.Rectangle{X: sum(widths[:i]), Width: widths[i], Height: t.height}
}

// OffsetForCoordinates picks the character whose horizontal center is
// closest to x. Past the middle of the last character the offset after it
// is returned if it still belongs to the enclosing node, otherwise the
// last character.
func (t *TextContent) OffsetForCoordinates(g graphics.Graphics, x, y int) int {
	t.Style.apply(g)
	widths := g.CharWidths(DisplayText(t.Text()))
	left := 0
	for i, w := range widths {
		if x < left+w/2 {
			return t.StartOffset() + i
		}
		left += w
	}
	if t.isLastEnclosedBox() {
		return t.EndOffset() + 1
	}
	return t.EndOffset()
}

// isLastEnclosedBox reports whether the offset after the box is the end of
// the enclosing content box.
func (t *TextContent) isLastEnclosedBox() bool {
	parent := ParentContentBox(t)
	return parent == nil || t.EndOffset() == parent.EndOffset()-1
}

func (t *TextContent) ContainsCoordinates(x, y int) bool {
	return AbsoluteBounds(t).Contains(x, y)
}

func (t *TextContent) IsLeftOf(x int) bool { return t.AbsoluteLeft()+t.width <= x }

func (t *TextContent) IsRightOf(x int) bool { return t.AbsoluteLeft() > x }

func (t *TextContent) IsAbove(y int) bool { return t.AbsoluteTop()+t.height <= y }

func (t *TextContent) IsBelow(y int) bool { return t.AbsoluteTop() > y }

// StaticText shows text that is not part of the document content, like
// generated content, bullets and node labels.
type StaticText struct {
	base
	text     string
	origin   *StaticText
	maxWidth int
	baseline int

	Style TextStyle
}

func NewStaticText(text string, style TextStyle) *StaticText {
	s := &StaticText{text: text, Style: style}
	s.origin = s
	return s
}

func (s *StaticText) Text() string { return s.text }

func (s *StaticText) Baseline() int { return s.baseline }

func (s *StaticText) MaxWidth() int { return s.maxWidth }

func (s *StaticText) SetMaxWidth(width int) { s.maxWidth = width }

func (s *StaticText) Layout(g graphics.Graphics) {
	m := s.Style.apply(g)
	s.width = g.StringWidth(DisplayText(s.text))
	s.height, s.baseline = s.Style.lineMetrics(m)
}

func (s *StaticText) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight := s.width, s.height
	s.Layout(g)
	return invalidateParentIf(s, oldWidth != s.width || oldHeight != s.height)
}

func (s *StaticText) Paint(g graphics.Graphics) {
	m := s.Style.apply(g)
	g.SetColor(s.Style.Color)
	g.DrawString(strings.TrimRight(DisplayText(s.text), " "), 0, s.baseline-m.Ascent)
}

func (s *StaticText) Accept(v Visitor) { v.VisitStaticText(s) }

func (s *StaticText) InvisibleGapAtStart(g graphics.Graphics) int { return 0 }

func (s *StaticText) InvisibleGapAtEnd(g graphics.Graphics) int {
	trimmed := strings.TrimRightFunc(s.text, unicode.IsSpace)
	if len(trimmed) == len(s.text) {
		return 0
	}
	s.Style.apply(g)
	return g.StringWidth(DisplayText(s.text[len(trimmed):]))
}

func (s *StaticText) LineWrappingAtStart() geom.LineWrappingRule { return geom.WrapAllowed }

func (s *StaticText) LineWrappingAtEnd() geom.LineWrappingRule {
	if strings.HasSuffix(s.text, "\n") {
		return geom.WrapRequired
	}
	return geom.WrapAllowed
}

func (s *StaticText) CanJoin(other InlineBox) bool {
	o, ok := other.(*StaticText)
	return ok && o.origin == s.origin && s.LineWrappingAtEnd() != geom.WrapRequired
}

func (s *StaticText) Join(other InlineBox) bool {
	if !s.CanJoin(other) {
		return false
	}
	o := other.(*StaticText)
	s.text += o.text
	s.width += o.width
	return true
}

func (s *StaticText) CanSplit() bool { return s.text != "" }

func (s *StaticText) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	s.Style.apply(g)
	runes := []rune(s.text)
	split := splitPosition(runes, g.CharWidths(DisplayText(s.text)), headWidth, force)
	if split <= 0 || split >= len(runes) {
		return nil
	}
	tail := &StaticText{text: string(runes[split:]), origin: s.origin, Style: s.Style}
	s.text = string(runes[:split])
	s.Layout(g)
	tail.Layout(g)
	return tail
}

// splitPosition returns how many runes of text go into a head of at most
// headWidth pixels. Breaks happen after whitespace and after line breaks;
// trailing whitespace of the head does not count against the width. With
// force set and no break opportunity, the head takes as many characters
// as fit, at least one. Zero means no split is possible.
func splitPosition(text []rune, widths []int, headWidth int, force bool) int {
	x := 0
	visibleEnd := 0
	lastBreak := 0
	fitting := 0
	for i, r := range text {
		x += widths[i]
		if x <= headWidth {
			fitting = i + 1
		}
		if r == '\n' {
			if visibleEnd <= headWidth {
				lastBreak = i + 1
			}
			break
		}
		if !unicode.IsSpace(r) {
			visibleEnd = x
			continue
		}
		if i+1 == len(text) || !unicode.IsSpace(text[i+1]) {
			if visibleEnd > headWidth {
				break
			}
			lastBreak = i + 1
		}
	}
	if lastBreak > 0 {
		return lastBreak
	}
	if !force {
		return 0
	}
	return max(1, fitting)
}

// DisplayText replaces characters that have no glyph with a space so that
// every offset keeps one measurable character.
func DisplayText(s string) string {
	if !strings.ContainsAny(s, "\n\t\r") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
