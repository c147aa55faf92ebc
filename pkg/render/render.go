// Package render paints a view into images in the background. Requests
// arriving while a pass runs are coalesced: at most one pass waits, and a
// newer request replaces it.
package render

import (
	"errors"
	"image"
	"log"
	"runtime/debug"
	"sync"

	"github.com/fogleman/gg"

	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
	"vexlayout/pkg/view"
)

// ErrNoImage is returned when no pass has finished yet.
var ErrNoImage = errors.New("render: no image painted yet")

// Pass selects the work a rendering pass does.
type Pass int

const (
	// LayoutAndPaint rebuilds and lays out the box tree before painting.
	LayoutAndPaint Pass = iota
	// PaintOnly paints the current tree.
	PaintOnly
)

func (p Pass) String() string {
	if p == PaintOnly {
		return "paint-only"
	}
	return "layout-and-paint"
}

type LayoutListener interface {
	LayoutStarted()
	LayoutFinished(width, height int)
}

type PaintingListener interface {
	PaintingStarted()
	PaintingFinished(img image.Image)
}

type Option func(*Renderer)

func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

func WithFonts(fonts *graphics.FontBank) Option {
	return func(r *Renderer) { r.fonts = fonts }
}

// WithMinHeight makes images at least height pixels high, as for a
// viewport taller than the content.
func WithMinHeight(height int) Option {
	return func(r *Renderer) { r.minHeight = height }
}

// WithCompletion sets fn to be called from the worker with the image of
// every finished pass.
func WithCompletion(fn func(img image.Image)) Option {
	return func(r *Renderer) { r.onComplete = fn }
}

// Renderer runs passes over a view on a background goroutine.
type Renderer struct {
	view       *view.View
	fonts      *graphics.FontBank
	logger     *log.Logger
	minHeight  int
	background geom.Color
	onComplete func(img image.Image)

	mu                sync.Mutex
	idle              *sync.Cond
	running           bool
	pending           *Pass
	image             image.Image
	passes            int
	layoutListeners   []LayoutListener
	paintingListeners []PaintingListener
}

func NewRenderer(v *view.View, opts ...Option) *Renderer {
	r := &Renderer{view: v, background: geom.White}
	for _, opt := range opts {
		opt(r)
	}
	if r.fonts == nil {
		r.fonts = graphics.NewFontBank()
	}
	r.idle = sync.NewCond(&r.mu)
	return r
}

func (r *Renderer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (r *Renderer) AddLayoutListener(l LayoutListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layoutListeners = append(r.layoutListeners, l)
}

func (r *Renderer) AddPaintingListener(l PaintingListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paintingListeners = append(r.paintingListeners, l)
}

// Request schedules a pass. It starts right away when the renderer is
// idle; otherwise it waits for the running pass, replacing any pass that
// was already waiting.
func (r *Renderer) Request(p Pass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.pending = &p
		return
	}
	r.running = true
	go r.run(p)
}

func (r *Renderer) run(p Pass) {
	for {
		img := r.pass(p)

		r.mu.Lock()
		if img != nil {
			r.image = img
		}
		r.passes++
		next := r.pending
		r.pending = nil
		if next == nil {
			r.running = false
			r.idle.Broadcast()
		}
		r.mu.Unlock()

		if img != nil && r.onComplete != nil {
			r.onComplete(img)
		}
		if next == nil {
			return
		}
		p = *next
	}
}

// pass runs one pass. A panic inside it is logged and yields no image.
func (r *Renderer) pass(p Pass) (img image.Image) {
	defer func() {
		if err := recover(); err != nil {
			r.logf("render: %s pass panicked: %v\n%s", p, err, debug.Stack())
			img = nil
		}
	}()
	r.mu.Lock()
	layoutListeners := append([]LayoutListener(nil), r.layoutListeners...)
	paintingListeners := append([]PaintingListener(nil), r.paintingListeners...)
	r.mu.Unlock()

	if p == LayoutAndPaint {
		for _, l := range layoutListeners {
			l.LayoutStarted()
		}
		r.view.Relayout()
		width, height := r.view.Size()
		for _, l := range layoutListeners {
			l.LayoutFinished(width, height)
		}
	}

	for _, l := range paintingListeners {
		l.PaintingStarted()
	}
	var canvas *graphics.GG
	r.view.PaintSized(func(width, height int) graphics.Graphics {
		width, height = max(width, 1), max(height, r.minHeight, 1)
		canvas = graphics.NewGG(width, height, r.view.Graphics().Device(), r.fonts)
		canvas.SetColor(r.background)
		canvas.FillRect(0, 0, width, height)
		return canvas
	})
	img = canvas.Image()
	for _, l := range paintingListeners {
		l.PaintingFinished(img)
	}
	return img
}

// Wait blocks until no pass is running or waiting.
func (r *Renderer) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.running {
		r.idle.Wait()
	}
}

// Image returns the image of the last finished pass, or nil.
func (r *Renderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image
}

// Passes counts the passes run so far.
func (r *Renderer) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

// SavePNG writes the image of the last finished pass.
func (r *Renderer) SavePNG(filename string) error {
	img := r.Image()
	if img == nil {
		return ErrNoImage
	}
	return gg.SavePNG(filename, img)
}
