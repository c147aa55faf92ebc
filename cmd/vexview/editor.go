package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"vexlayout/pkg/cursor"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/render"
	"vexlayout/pkg/view"
)

// editor shows the rendered view and turns keys and clicks into cursor
// moves and edits.
type editor struct {
	widget.BaseWidget

	view     *view.View
	renderer *render.Renderer
	status   *widget.Label
	image    *canvas.Image
	viewport fyne.CanvasObject

	shift     bool
	overwrite bool
}

var (
	_ fyne.Focusable    = (*editor)(nil)
	_ fyne.Tappable     = (*editor)(nil)
	_ desktop.Keyable   = (*editor)(nil)
	_ desktop.Mouseable = (*editor)(nil)
)

func newEditor(v *view.View, status *widget.Label) *editor {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	e := &editor{view: v, status: status, image: img}
	e.ExtendBaseWidget(e)
	return e
}

func (e *editor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.image)
}

func (e *editor) setImage(img image.Image) {
	e.image.Image = img
	e.image.Refresh()
	e.Refresh()
}

// pixel converts a position on the widget to image pixels.
func (e *editor) pixel(pos fyne.Position) (int, int) {
	scale := float32(1)
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil {
		scale = c.Scale()
	}
	return int(pos.X * scale), int(pos.Y * scale)
}

func (e *editor) Tapped(*fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil {
		c.Focus(e)
	}
}

func (e *editor) MouseDown(ev *desktop.MouseEvent) {
	x, y := e.pixel(ev.Position)
	m := cursor.MoveToAbsoluteCoordinates{X: x, Y: y}
	if ev.Modifier&fyne.KeyModifierShift != 0 {
		e.view.Select(m)
	} else {
		e.view.Move(m)
	}
	e.renderer.Request(render.PaintOnly)
}

func (e *editor) MouseUp(*desktop.MouseEvent) {}

func (e *editor) FocusGained() {}
func (e *editor) FocusLost()   {}

func (e *editor) KeyDown(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		e.shift = true
	}
}

func (e *editor) KeyUp(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		e.shift = false
	}
}

// page is the height of a page move, the visible part of the document.
func (e *editor) page() int {
	size := e.Size()
	if e.viewport != nil {
		size = e.viewport.Size()
	}
	_, h := e.pixel(fyne.NewPos(0, size.Height))
	return max(h, 1)
}

var keyMoves = map[fyne.KeyName]func(e *editor) cursor.Move{
	fyne.KeyLeft:     func(*editor) cursor.Move { return cursor.MoveLeft{} },
	fyne.KeyRight:    func(*editor) cursor.Move { return cursor.MoveRight{} },
	fyne.KeyUp:       func(*editor) cursor.Move { return cursor.MoveUp{} },
	fyne.KeyDown:     func(*editor) cursor.Move { return cursor.MoveDown{} },
	fyne.KeyHome:     func(*editor) cursor.Move { return cursor.MoveToLineStart{} },
	fyne.KeyEnd:      func(*editor) cursor.Move { return cursor.MoveToLineEnd{} },
	fyne.KeyPageUp:   func(e *editor) cursor.Move { return cursor.MovePageUp{Height: e.page()} },
	fyne.KeyPageDown: func(e *editor) cursor.Move { return cursor.MovePageDown{Height: e.page()} },
}

func (e *editor) TypedKey(ev *fyne.KeyEvent) {
	if move, ok := keyMoves[ev.Name]; ok {
		if e.shift {
			e.view.Select(move(e))
		} else {
			e.view.Move(move(e))
		}
		e.renderer.Request(render.PaintOnly)
		return
	}

	switch ev.Name {
	case fyne.KeyInsert:
		e.overwrite = !e.overwrite
		e.view.SetOverwrite(e.overwrite)
		e.renderer.Request(render.PaintOnly)
	case fyne.KeyBackspace:
		e.deleteAround(-1)
	case fyne.KeyDelete:
		e.deleteAround(0)
	}
}

// deleteAround deletes the selection, or the character at the caret plus
// delta when nothing is selected.
func (e *editor) deleteAround(delta int) {
	var err error
	if _, ok := e.view.Selection(); ok {
		err = e.view.DeleteSelection()
	} else {
		at := e.view.Offset() + delta
		err = e.view.Delete(dom.NewRange(at, at))
	}
	e.edited(err)
}

func (e *editor) TypedRune(r rune) {
	e.edited(e.view.Type(string(r)))
}

func (e *editor) edited(err error) {
	if err != nil {
		e.status.SetText(err.Error())
		return
	}
	e.renderer.Request(render.PaintOnly)
}
