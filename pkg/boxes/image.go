package boxes

import (
	"image"

	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// Image shows a picture at its intrinsic size, scaled down proportionally
// when it is wider than the line.
type Image struct {
	base
	img      image.Image
	maxWidth int
}

func NewImage(img image.Image) *Image {
	return &Image{img: img}
}

func (i *Image) Image() image.Image { return i.img }

func (i *Image) Baseline() int { return i.height }

func (i *Image) MaxWidth() int { return i.maxWidth }

func (i *Image) SetMaxWidth(width int) { i.maxWidth = width }

func (i *Image) Layout(g graphics.Graphics) {
	if i.img == nil {
		i.width, i.height = 0, 0
		return
	}
	size := i.img.Bounds().Size()
	i.width, i.height = size.X, size.Y
	if i.maxWidth > 0 && i.width > i.maxWidth {
		i.height = i.height * i.maxWidth / i.width
		i.width = i.maxWidth
	}
}

func (i *Image) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight := i.width, i.height
	i.Layout(g)
	return invalidateParentIf(i, oldWidth != i.width || oldHeight != i.height)
}

func (i *Image) Paint(g graphics.Graphics) {
	g.DrawImage(i.img, 0, 0, i.width, i.height)
}

func (i *Image) Accept(v Visitor) { v.VisitImage(i) }

func (i *Image) InvisibleGapAtStart(g graphics.Graphics) int { return 0 }

func (i *Image) InvisibleGapAtEnd(g graphics.Graphics) int { return 0 }

func (i *Image) LineWrappingAtStart() geom.LineWrappingRule { return geom.WrapAllowed }

func (i *Image) LineWrappingAtEnd() geom.LineWrappingRule { return geom.WrapAllowed }

func (i *Image) CanJoin(other InlineBox) bool { return false }

func (i *Image) Join(other InlineBox) bool { return false }

func (i *Image) CanSplit() bool { return false }

func (i *Image) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox { return nil }

type Shape int

const (
	ShapeSquare Shape = iota
	ShapeDisc
	ShapeCircle
)

// Square is a small graphical mark, used for list bullets.
type Square struct {
	base
	maxWidth int

	Size  int
	Shape Shape
	Color geom.Color
}

func NewSquare(size int, shape Shape, color geom.Color) *Square {
	return &Square{Size: size, Shape: shape, Color: color}
}

func (s *Square) Baseline() int { return s.height }

func (s *Square) MaxWidth() int { return s.maxWidth }

func (s *Square) SetMaxWidth(width int) { s.maxWidth = width }

func (s *Square) Layout(g graphics.Graphics) {
	s.width, s.height = s.Size, s.Size
}

func (s *Square) ReconcileLayout(g graphics.Graphics) []Box {
	old := s.width
	s.Layout(g)
	return invalidateParentIf(s, old != s.width)
}

func (s *Square) Paint(g graphics.Graphics) {
	g.SetColor(s.Color)
	switch s.Shape {
	case ShapeDisc:
		g.FillOval(0, 0, s.width, s.height)
	case ShapeCircle:
		g.SetLineWidth(1)
		g.DrawOval(0, 0, s.width, s.height)
	default:
		g.FillRect(0, 0, s.width, s.height)
	}
}

func (s *Square) Accept(v Visitor) { v.VisitSquare(s) }

func (s *Square) InvisibleGapAtStart(g graphics.Graphics) int { return 0 }

func (s *Square) InvisibleGapAtEnd(g graphics.Graphics) int { return 0 }

func (s *Square) LineWrappingAtStart() geom.LineWrappingRule { return geom.WrapAllowed }

func (s *Square) LineWrappingAtEnd() geom.LineWrappingRule { return geom.WrapAllowed }

func (s *Square) CanJoin(other InlineBox) bool { return false }

func (s *Square) Join(other InlineBox) bool { return false }

func (s *Square) CanSplit() bool { return false }

func (s *Square) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox { return nil }
