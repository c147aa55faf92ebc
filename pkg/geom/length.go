package geom

import (
	"fmt"
	"math"
)

// Length is either an absolute pixel value or a percentage of a reference
// length that is only known at layout time (usually the parent width).
type Length struct {
	Value   float64
	Percent bool
}

// Absolute returns a fixed pixel length.
func Absolute(px int) Length {
	return Length{Value: float64(px)}
}

// Relative returns a percentage length, 50 meaning 50%.
func Relative(percent float64) Length {
	return Length{Value: percent, Percent: true}
}

// Get resolves the length against the given reference length.
func (l Length) Get(reference int) int {
	if l.Percent {
		return int(math.Round(float64(reference) * l.Value / 100))
	}
	return int(math.Round(l.Value))
}

func (l Length) String() string {
	if l.Percent {
		return fmt.Sprintf("%g%%", l.Value)
	}
	return fmt.Sprintf("%gpx", l.Value)
}

// Margin holds the four outer edge lengths of a box.
type Margin struct {
	Top, Left, Bottom, Right Length
}

func UniformMargin(px int) Margin {
	l := Absolute(px)
	return Margin{Top: l, Left: l, Bottom: l, Right: l}
}

// Horizontal resolves left+right against the reference width.
func (m Margin) Horizontal(reference int) int {
	return m.Left.Get(reference) + m.Right.Get(reference)
}

func (m Margin) Vertical(reference int) int {
	return m.Top.Get(reference) + m.Bottom.Get(reference)
}

// Padding holds the four inner edge lengths of a box.
type Padding struct {
	Top, Left, Bottom, Right Length
}

func UniformPadding(px int) Padding {
	l := Absolute(px)
	return Padding{Top: l, Left: l, Bottom: l, Right: l}
}

func (p Padding) Horizontal(reference int) int {
	return p.Left.Get(reference) + p.Right.Get(reference)
}

func (p Padding) Vertical(reference int) int {
	return p.Top.Get(reference) + p.Bottom.Get(reference)
}

// LineStyle is the stroke style of a border edge or horizontal rule.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
	LineDouble
)

// BorderLine describes one border edge. A zero width means no border.
type BorderLine struct {
	Width int
	Style LineStyle
	Color Color
}

// Border holds the four border edges.
type Border struct {
	Top, Left, Bottom, Right BorderLine
}

func UniformBorder(line BorderLine) Border {
	return Border{Top: line, Left: line, Bottom: line, Right: line}
}

func (b Border) Horizontal() int {
	return b.Left.Width + b.Right.Width
}

func (b Border) Vertical() int {
	return b.Top.Width + b.Bottom.Width
}

// Insets is the resolved sum of margin, border and padding on each edge.
type Insets struct {
	Top, Left, Bottom, Right int
}

// FrameInsets resolves margin+border+padding. Percentages resolve against
// the reference width, matching CSS where vertical percentages also use the
// containing block width.
func FrameInsets(m Margin, b Border, p Padding, reference int) Insets {
	return Insets{
		Top:    m.Top.Get(reference) + b.Top.Width + p.Top.Get(reference),
		Left:   m.Left.Get(reference) + b.Left.Width + p.Left.Get(reference),
		Bottom: m.Bottom.Get(reference) + b.Bottom.Width + p.Bottom.Get(reference),
		Right:  m.Right.Get(reference) + b.Right.Width + p.Right.Get(reference),
	}
}

func (i Insets) Horizontal() int {
	return i.Left + i.Right
}

func (i Insets) Vertical() int {
	return i.Top + i.Bottom
}
