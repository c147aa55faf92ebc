package graphics

import (
	"testing"

	"vexlayout/pkg/css"
	"vexlayout/pkg/geom"
)

func TestFakeMeasuresCells(t *testing.T) {
	g := NewFake()
	if got := g.StringWidth("line1 "); got != 36 {
		t.Errorf("expected 36, got %d", got)
	}
	if got := g.StringWidth("世界"); got != 24 {
		t.Errorf("expected wide runes to take two cells, got %d", got)
	}
	widths := g.CharWidths("a\tb")
	if len(widths) != 3 || widths[1] != FakeCellWidth {
		t.Errorf("unexpected widths %v", widths)
	}
	if m := g.FontMetrics(); m.Height != 12 || m.Ascent != 10 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestFakeRecordsAbsoluteDrawing(t *testing.T) {
	g := NewFake()
	Translated(g, 10, 20, func() {
		g.FillRect(1, 2, 3, 4)
		g.DrawString("x", 5, 6)
	})
	if x, y := g.Origin(); x != 0 || y != 0 {
		t.Errorf("origin not restored: %d,%d", x, y)
	}
	if len(g.Filled) != 1 || g.Filled[0] != (geom.Rectangle{X: 11, Y: 22, Width: 3, Height: 4}) {
		t.Errorf("unexpected fills %v", g.Filled)
	}
	if len(g.Strings) != 1 || g.Strings[0].X != 15 || g.Strings[0].Y != 26 {
		t.Errorf("unexpected strings %v", g.Strings)
	}
}

func TestFontVariants(t *testing.T) {
	tests := []struct {
		spec geom.FontSpec
		want string
	}{
		{geom.FontSpec{Family: "serif"}, "regular"},
		{geom.FontSpec{Family: "serif", Style: geom.FontBold}, "bold"},
		{geom.FontSpec{Family: "Courier New", Style: geom.FontItalic}, "mono-italic"},
		{geom.FontSpec{Family: "monospace", Style: geom.FontBold | geom.FontItalic}, "mono-bold-italic"},
	}
	for _, tt := range tests {
		if got := variant(tt.spec); got != tt.want {
			t.Errorf("%+v: expected %s, got %s", tt.spec, tt.want, got)
		}
	}
}

func TestGGMeasuresAndPaints(t *testing.T) {
	g := NewGG(100, 40, css.ScreenDevice, nil)
	g.SetCurrentFont(geom.FontSpec{Family: "sans-serif", Size: 14})
	wide := g.StringWidth("MMMM")
	narrow := g.StringWidth("iiii")
	if wide <= narrow {
		t.Errorf("expected proportional widths, got %d <= %d", wide, narrow)
	}
	m := g.FontMetrics()
	if m.Ascent <= 0 || m.Height < m.Ascent+m.Descent {
		t.Errorf("unexpected metrics %+v", m)
	}
	sum := 0
	for _, w := range g.CharWidths("MMMM") {
		sum += w
	}
	if sum < wide-2 || sum > wide+2 {
		t.Errorf("char widths %d should add up to string width %d", sum, wide)
	}

	g.SetColor(geom.Color{R: 255})
	g.FillRect(0, 0, 10, 10)
	r, _, _, _ := g.Image().At(5, 5).RGBA()
	if r>>8 != 255 {
		t.Errorf("expected a red pixel, got r=%d", r>>8)
	}
}
