// Package graphics defines the measurement and drawing context layout and
// painting run against, with a headless implementation for layout-only work
// and a raster implementation backed by gg.
package graphics

import (
	"image"

	"vexlayout/pkg/css"
	"vexlayout/pkg/geom"
)

// Metrics are the vertical measurements of the current font in pixels.
type Metrics struct {
	Ascent  int
	Descent int
	Height  int
	Leading int
}

// Graphics is the context passed to layout and paint. Coordinates given to
// drawing calls are relative to the current origin.
type Graphics interface {
	Device() css.Device

	SetCurrentFont(font geom.FontSpec)
	CurrentFont() geom.FontSpec
	FontMetrics() Metrics
	StringWidth(s string) int
	// CharWidths returns the advance of every rune of s.
	CharWidths(s string) []int

	MoveOrigin(dx, dy int)
	Origin() (x, y int)

	SetColor(c geom.Color)
	SetLineStyle(style geom.LineStyle)
	SetLineWidth(width int)
	FillRect(x, y, width, height int)
	DrawRect(x, y, width, height int)
	DrawLine(x1, y1, x2, y2 int)
	DrawOval(x, y, width, height int)
	FillOval(x, y, width, height int)
	// DrawString draws s with its top edge at y.
	DrawString(s string, x, y int)
	DrawImage(img image.Image, x, y, width, height int)
}

// Translated runs fn with the origin moved by (dx, dy) and restores it.
func Translated(g Graphics, dx, dy int, fn func()) {
	g.MoveOrigin(dx, dy)
	defer g.MoveOrigin(-dx, -dy)
	fn()
}
