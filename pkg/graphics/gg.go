package graphics

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"vexlayout/pkg/css"
	"vexlayout/pkg/geom"
)

// GG paints into an RGBA image through a gg context.
type GG struct {
	context *gg.Context
	device  css.Device
	fonts   *FontBank
	font    geom.FontSpec
	face    font.Face
	originX int
	originY int
	dashed  geom.LineStyle
}

// NewGG creates a context painting into a fresh white image.
func NewGG(width, height int, device css.Device, fonts *FontBank) *GG {
	if fonts == nil {
		fonts = NewFontBank()
	}
	g := &GG{context: gg.NewContext(width, height), device: device, fonts: fonts}
	g.context.SetRGB(1, 1, 1)
	g.context.Clear()
	g.SetCurrentFont(geom.FontSpec{Family: "sans-serif", Size: 12})
	g.SetColor(geom.Black)
	return g
}

// Image returns the painted image.
func (g *GG) Image() image.Image {
	return g.context.Image()
}

func (g *GG) Device() css.Device { return g.device }

func (g *GG) SetCurrentFont(spec geom.FontSpec) {
	g.font = spec
	g.face = g.fonts.Face(spec)
	g.context.SetFontFace(g.face)
}

func (g *GG) CurrentFont() geom.FontSpec { return g.font }

func (g *GG) FontMetrics() Metrics {
	m := g.face.Metrics()
	ascent := m.Ascent.Ceil()
	descent := m.Descent.Ceil()
	height := m.Height.Ceil()
	if height < ascent+descent {
		height = ascent + descent
	}
	return Metrics{Ascent: ascent, Descent: descent, Height: height, Leading: height - ascent - descent}
}

func (g *GG) StringWidth(s string) int {
	return font.MeasureString(g.face, s).Ceil()
}

func (g *GG) CharWidths(s string) []int {
	widths := make([]int, 0, len(s))
	prev := rune(-1)
	for _, r := range s {
		advance, ok := g.face.GlyphAdvance(r)
		if !ok {
			advance, _ = g.face.GlyphAdvance('?')
		}
		if prev >= 0 {
			advance += g.face.Kern(prev, r)
		}
		widths = append(widths, advance.Round())
		prev = r
	}
	return widths
}

func (g *GG) MoveOrigin(dx, dy int) {
	g.originX += dx
	g.originY += dy
}

func (g *GG) Origin() (int, int) { return g.originX, g.originY }

func (g *GG) SetColor(c geom.Color) {
	g.context.SetRGBA(c.RGBA())
}

func (g *GG) SetLineStyle(style geom.LineStyle) {
	g.dashed = style
}

func (g *GG) SetLineWidth(width int) {
	g.context.SetLineWidth(float64(width))
}

func (g *GG) applyDash() {
	switch g.dashed {
	case geom.LineDashed:
		g.context.SetDash(6, 3)
	case geom.LineDotted:
		g.context.SetDash(1, 2)
	default:
		g.context.SetDash()
	}
}

func (g *GG) abs(x, y int) (float64, float64) {
	return float64(g.originX + x), float64(g.originY + y)
}

func (g *GG) FillRect(x, y, width, height int) {
	ax, ay := g.abs(x, y)
	g.context.DrawRectangle(ax, ay, float64(width), float64(height))
	g.context.Fill()
}

func (g *GG) DrawRect(x, y, width, height int) {
	ax, ay := g.abs(x, y)
	g.applyDash()
	g.context.DrawRectangle(ax+0.5, ay+0.5, float64(width-1), float64(height-1))
	g.context.Stroke()
}

func (g *GG) DrawLine(x1, y1, x2, y2 int) {
	ax1, ay1 := g.abs(x1, y1)
	ax2, ay2 := g.abs(x2, y2)
	g.applyDash()
	g.context.DrawLine(ax1, ay1, ax2, ay2)
	g.context.Stroke()
}

func (g *GG) DrawOval(x, y, width, height int) {
	ax, ay := g.abs(x, y)
	g.context.DrawEllipse(ax+float64(width)/2, ay+float64(height)/2, float64(width)/2, float64(height)/2)
	g.context.Stroke()
}

func (g *GG) FillOval(x, y, width, height int) {
	ax, ay := g.abs(x, y)
	g.context.DrawEllipse(ax+float64(width)/2, ay+float64(height)/2, float64(width)/2, float64(height)/2)
	g.context.Fill()
}

func (g *GG) DrawString(s string, x, y int) {
	ax, ay := g.abs(x, y)
	g.context.DrawString(s, ax, ay+float64(g.FontMetrics().Ascent))
	if g.font.IsUnderline() {
		baseline := ay + float64(g.FontMetrics().Ascent) + 1
		g.context.SetLineWidth(1)
		g.context.SetDash()
		g.context.DrawLine(ax, baseline, ax+float64(g.StringWidth(s)), baseline)
		g.context.Stroke()
	}
}

func (g *GG) DrawImage(img image.Image, x, y, width, height int) {
	if img == nil {
		return
	}
	ax, ay := g.abs(x, y)
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	g.context.Push()
	defer g.context.Pop()
	g.context.Translate(ax, ay)
	g.context.Scale(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	g.context.DrawImage(img, -b.Min.X, -b.Min.Y)
}
