package boxes

import (
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// paintDecoration draws background and border of a frame. The background
// covers the border box, margins stay transparent.
func paintDecoration(g graphics.Graphics, width, height int, margin geom.Margin, border geom.Border, reference int, background *geom.Color) {
	top := margin.Top.Get(reference)
	left := margin.Left.Get(reference)
	bottom := height - margin.Bottom.Get(reference)
	right := width - margin.Right.Get(reference)
	if bottom <= top || right <= left {
		return
	}

	if background != nil {
		g.SetColor(*background)
		g.FillRect(left, top, right-left, bottom-top)
	}

	drawBorderLine(g, border.Top, left, top+border.Top.Width/2, right, top+border.Top.Width/2)
	drawBorderLine(g, border.Left, left+border.Left.Width/2, top, left+border.Left.Width/2, bottom)
	drawBorderLine(g, border.Bottom, left, bottom-(border.Bottom.Width+1)/2, right, bottom-(border.Bottom.Width+1)/2)
	drawBorderLine(g, border.Right, right-(border.Right.Width+1)/2, top, right-(border.Right.Width+1)/2, bottom)
}

func drawBorderLine(g graphics.Graphics, line geom.BorderLine, x1, y1, x2, y2 int) {
	if line.Width <= 0 {
		return
	}
	g.SetLineStyle(line.Style)
	g.SetLineWidth(line.Width)
	g.SetColor(line.Color)
	g.DrawLine(x1, y1, x2, y2)
	g.SetLineWidth(1)
	g.SetLineStyle(geom.LineSolid)
}
