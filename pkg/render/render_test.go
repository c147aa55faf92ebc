package render

import (
	"bytes"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/view"
)

func newView(t *testing.T) *view.View {
	t.Helper()
	doc, err := dom.Parse(`<root><block>line1 line2 line3</block><block>line1 line2 line3</block></root>`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	resolver := css.NewResolver(css.ScreenDevice, css.MustParseStyleSheet(`root, block { display: block }`))
	return view.New(doc, resolver, view.WithWidth(36))
}

// gate blocks the first layout until released and counts layouts.
type gate struct {
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	layouts int
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) LayoutStarted() {
	g.mu.Lock()
	g.layouts++
	first := g.layouts == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.release
	}
}

func (g *gate) LayoutFinished(width, height int) {}

func (g *gate) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.layouts
}

type paintCounter struct {
	mu       sync.Mutex
	finished []image.Image
}

func (p *paintCounter) PaintingStarted() {}

func (p *paintCounter) PaintingFinished(img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = append(p.finished, img)
}

func TestRenderPaintsView(t *testing.T) {
	r := NewRenderer(newView(t))
	if r.Image() != nil {
		t.Fatalf("expected no image before the first pass")
	}
	r.Request(LayoutAndPaint)
	r.Wait()
	img := r.Image()
	if img == nil {
		t.Fatalf("expected an image")
	}
	if got := img.Bounds().Size(); got != image.Pt(36, 72) {
		t.Errorf("expected a 36x72 image, got %v", got)
	}
	if r.Passes() != 1 {
		t.Errorf("expected one pass, got %d", r.Passes())
	}
}

func TestImageSizeFollowsWidthChanges(t *testing.T) {
	v := newView(t)
	painted := &paintCounter{}
	r := NewRenderer(v)
	r.AddPaintingListener(painted)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 40 {
			if i%2 == 0 {
				v.SetWidth(1000)
			} else {
				v.SetWidth(36)
			}
		}
	}()
	for range 40 {
		r.Request(PaintOnly)
	}
	<-done
	r.Request(PaintOnly)
	r.Wait()

	valid := map[image.Point]bool{image.Pt(36, 72): true, image.Pt(1000, 24): true}
	painted.mu.Lock()
	defer painted.mu.Unlock()
	for _, img := range painted.finished {
		if got := img.Bounds().Size(); !valid[got] {
			t.Errorf("image of %v does not match any layout", got)
		}
	}
	if got := r.Image().Bounds().Size(); got != image.Pt(36, 72) {
		t.Errorf("expected the last image at 36x72, got %v", got)
	}
}

func TestMinHeight(t *testing.T) {
	r := NewRenderer(newView(t), WithMinHeight(100))
	r.Request(PaintOnly)
	r.Wait()
	if got := r.Image().Bounds().Dy(); got != 100 {
		t.Errorf("expected height 100, got %d", got)
	}
}

func TestRequestsWhileRunningCoalesce(t *testing.T) {
	r := NewRenderer(newView(t))
	g := newGate()
	painted := &paintCounter{}
	r.AddLayoutListener(g)
	r.AddPaintingListener(painted)

	r.Request(LayoutAndPaint)
	<-g.started
	r.Request(PaintOnly)
	r.Request(PaintOnly)
	r.Request(LayoutAndPaint)
	close(g.release)
	r.Wait()

	if r.Passes() != 2 {
		t.Errorf("expected the running pass and one coalesced pass, got %d", r.Passes())
	}
	if g.count() != 2 {
		t.Errorf("expected the last request to win and lay out again, got %d layouts", g.count())
	}
	if len(painted.finished) != 2 {
		t.Errorf("expected two painted images, got %d", len(painted.finished))
	}
	if r.Image() != painted.finished[len(painted.finished)-1] {
		t.Errorf("expected the image of the last pass to be current")
	}
}

func TestLastRequestReplacesPending(t *testing.T) {
	r := NewRenderer(newView(t))
	g := newGate()
	r.AddLayoutListener(g)

	r.Request(LayoutAndPaint)
	<-g.started
	r.Request(LayoutAndPaint)
	r.Request(PaintOnly)
	close(g.release)
	r.Wait()

	if g.count() != 1 {
		t.Errorf("expected the paint-only request to replace the pending layout, got %d layouts", g.count())
	}
	if r.Passes() != 2 {
		t.Errorf("expected 2 passes, got %d", r.Passes())
	}
}

type panicking struct{}

func (panicking) LayoutStarted()                   { panic("layout exploded") }
func (panicking) LayoutFinished(width, height int) {}

func TestPanicInPassIsLogged(t *testing.T) {
	var logs bytes.Buffer
	r := NewRenderer(newView(t), WithLogger(log.New(&logs, "", 0)))
	r.AddLayoutListener(panicking{})

	r.Request(LayoutAndPaint)
	r.Wait()
	if r.Image() != nil {
		t.Errorf("expected no image from a failed pass")
	}
	if !strings.Contains(logs.String(), "layout exploded") {
		t.Errorf("expected the panic to be logged, got %q", logs.String())
	}

	r.Request(PaintOnly)
	r.Wait()
	if r.Image() == nil {
		t.Errorf("expected the renderer to keep working after a panic")
	}
}

func TestCompletionCallback(t *testing.T) {
	done := make(chan image.Image, 1)
	r := NewRenderer(newView(t), WithCompletion(func(img image.Image) { done <- img }))
	r.Request(PaintOnly)
	if img := <-done; img == nil {
		t.Errorf("expected the completion callback to get the image")
	}
}

func TestSavePNG(t *testing.T) {
	r := NewRenderer(newView(t))
	filename := filepath.Join(t.TempDir(), "out.png")
	if err := r.SavePNG(filename); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	r.Request(PaintOnly)
	r.Wait()
	if err := r.SavePNG(filename); err != nil {
		t.Fatalf("save: %v", err)
	}
	if info, err := os.Stat(filename); err != nil || info.Size() == 0 {
		t.Errorf("expected a PNG file, got %v", err)
	}
}

func TestPassString(t *testing.T) {
	if PaintOnly.String() != "paint-only" || LayoutAndPaint.String() != "layout-and-paint" {
		t.Errorf("unexpected pass names %q, %q", PaintOnly, LayoutAndPaint)
	}
}
