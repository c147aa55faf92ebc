package graphics

import (
	"image"

	"github.com/mattn/go-runewidth"

	"vexlayout/pkg/css"
	"vexlayout/pkg/geom"
)

// Fake cell metrics: every terminal cell is 6 pixels wide, a line is 12
// pixels high with the baseline at 10.
const (
	FakeCellWidth = 6
	FakeAscent    = 10
	FakeDescent   = 2
)

// Fake measures text in fixed-width cells and records what is drawn instead
// of rasterizing it. East asian wide runes take two cells. It makes layout
// deterministic, independent from installed fonts.
type Fake struct {
	device  css.Device
	font    geom.FontSpec
	color   geom.Color
	originX int
	originY int

	// Filled and Strings record the absolute drawing operations.
	Filled  []geom.Rectangle
	Strings []DrawnString
}

type DrawnString struct {
	Text  string
	X, Y  int
	Color geom.Color
}

func NewFake() *Fake {
	return &Fake{device: css.ScreenDevice}
}

func (f *Fake) Device() css.Device { return f.device }

func (f *Fake) SetCurrentFont(font geom.FontSpec) { f.font = font }

func (f *Fake) CurrentFont() geom.FontSpec { return f.font }

func (f *Fake) FontMetrics() Metrics {
	return Metrics{Ascent: FakeAscent, Descent: FakeDescent, Height: FakeAscent + FakeDescent}
}

func (f *Fake) StringWidth(s string) int {
	return runewidth.StringWidth(s) * FakeCellWidth
}

func (f *Fake) CharWidths(s string) []int {
	widths := make([]int, 0, len(s))
	for _, r := range s {
		widths = append(widths, runeCells(r)*FakeCellWidth)
	}
	return widths
}

// runeCells counts control characters such as tabs and line breaks as one
// cell so that every offset keeps a visible caret position.
func runeCells(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

func (f *Fake) MoveOrigin(dx, dy int) {
	f.originX += dx
	f.originY += dy
}

func (f *Fake) Origin() (int, int) { return f.originX, f.originY }

func (f *Fake) SetColor(c geom.Color) { f.color = c }

func (f *Fake) SetLineStyle(geom.LineStyle) {}

func (f *Fake) SetLineWidth(int) {}

func (f *Fake) FillRect(x, y, width, height int) {
	f.Filled = append(f.Filled, geom.Rectangle{X: f.originX + x, Y: f.originY + y, Width: width, Height: height})
}

func (f *Fake) DrawRect(x, y, width, height int) {}

func (f *Fake) DrawLine(x1, y1, x2, y2 int) {}

func (f *Fake) DrawOval(x, y, width, height int) {}

func (f *Fake) FillOval(x, y, width, height int) {
	f.FillRect(x, y, width, height)
}

func (f *Fake) DrawString(s string, x, y int) {
	f.Strings = append(f.Strings, DrawnString{Text: s, X: f.originX + x, Y: f.originY + y, Color: f.color})
}

func (f *Fake) DrawImage(img image.Image, x, y, width, height int) {}

// Reset forgets recorded operations.
func (f *Fake) Reset() {
	f.Filled = nil
	f.Strings = nil
}
