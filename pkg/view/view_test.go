package view

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vexlayout/pkg/css"
	"vexlayout/pkg/cursor"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/graphics"
)

const twoBlocks = `<root><block>line1 line2 line3</block><block>line1 line2 line3</block></root>`

func newView(t *testing.T, markup string, opts ...Option) *View {
	t.Helper()
	doc, err := dom.Parse(markup)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	resolver := css.NewResolver(css.ScreenDevice, css.MustParseStyleSheet(`root, block { display: block }`))
	return New(doc, resolver, append([]Option{WithWidth(36)}, opts...)...)
}

func blockText(v *View, i int) string {
	return v.Document().RootElement().ChildNodes()[i].(*dom.Element).Text()
}

// checkIncremental compares the updated tree with a tree built from
// scratch for the same document.
func checkIncremental(t *testing.T, v *View) {
	t.Helper()
	incremental := v.Dump()
	v.Relayout()
	if diff := cmp.Diff(v.Dump(), incremental); diff != "" {
		t.Errorf("incremental update differs from a full build (-full +incremental):\n%s", diff)
	}
}

func TestLayout(t *testing.T) {
	v := newView(t, twoBlocks)
	if v.Height() != 72 {
		t.Errorf("expected height 72, got %d", v.Height())
	}
	v.SetWidth(1000)
	if v.Height() != 24 {
		t.Errorf("expected one line per block at width 1000, got height %d", v.Height())
	}
}

func TestInsertTextReconciles(t *testing.T) {
	v := newView(t, twoBlocks)
	v.Move(cursor.MoveToOffset{Offset: 15})
	if err := v.InsertText(9, "abc "); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := blockText(v, 0); got != "line1 abc line2 line3" {
		t.Errorf("unexpected text %q", got)
	}
	if v.Height() != 84 {
		t.Errorf("expected block1 to grow by a line to 84, got %d", v.Height())
	}
	if v.Offset() != 19 {
		t.Errorf("expected the caret to follow its text to 19, got %d", v.Offset())
	}
	checkIncremental(t, v)
}

func TestTypeAtCaret(t *testing.T) {
	v := newView(t, twoBlocks)
	v.Move(cursor.MoveToOffset{Offset: 3})
	if err := v.Type("xy"); err != nil {
		t.Fatalf("type: %v", err)
	}
	if got := blockText(v, 0); got != "xyline1 line2 line3" {
		t.Errorf("unexpected text %q", got)
	}
	if v.Offset() != 5 {
		t.Errorf("expected the caret after the typed text at 5, got %d", v.Offset())
	}
	checkIncremental(t, v)
}

func TestInsertElementReconciles(t *testing.T) {
	v := newView(t, twoBlocks)
	el, err := v.InsertElement(21, "block")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if el.Range() != dom.NewRange(21, 22) {
		t.Errorf("expected the new block at [21,22], got %v", el.Range())
	}
	if v.Height() != 84 {
		t.Errorf("expected an empty line for the new block, got height %d", v.Height())
	}
	if box := v.BoxForOffset(21); box == nil || box.Range() != el.Range() {
		t.Errorf("expected a box for the new block at 21")
	}
	checkIncremental(t, v)
}

func TestDeleteReconciles(t *testing.T) {
	v := newView(t, twoBlocks)
	v.Move(cursor.MoveToOffset{Offset: 25})
	if err := v.Delete(dom.NewRange(21, 39)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v.Height() != 36 {
		t.Errorf("expected one block left with height 36, got %d", v.Height())
	}
	if v.Offset() != 21 {
		t.Errorf("expected the caret at the start of the removed range, got %d", v.Offset())
	}
	checkIncremental(t, v)
}

func TestDeleteSelection(t *testing.T) {
	v := newView(t, twoBlocks)
	if err := v.DeleteSelection(); err != nil {
		t.Fatalf("expected no-op without selection, got %v", err)
	}
	v.Move(cursor.MoveToOffset{Offset: 4})
	v.Select(cursor.MoveToOffset{Offset: 7})
	if r, ok := v.Selection(); !ok || r != dom.NewRange(4, 6) {
		t.Fatalf("expected selection [4,6], got %v", r)
	}
	if err := v.DeleteSelection(); err != nil {
		t.Fatalf("delete selection: %v", err)
	}
	if got := blockText(v, 0); got != "l1 line2 line3" {
		t.Errorf("unexpected text %q", got)
	}
	if _, ok := v.Selection(); ok {
		t.Errorf("expected the selection to be gone")
	}
	if v.Offset() != 4 {
		t.Errorf("expected caret 4, got %d", v.Offset())
	}
	checkIncremental(t, v)
}

func TestEditErrors(t *testing.T) {
	v := newView(t, twoBlocks)
	if err := v.InsertText(0, "x"); !errors.Is(err, dom.ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if err := v.Delete(dom.NewRange(5, 25)); !errors.Is(err, dom.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if v.Height() != 72 {
		t.Errorf("expected failed edits to leave the layout alone, got height %d", v.Height())
	}
}

func TestHitTesting(t *testing.T) {
	v := newView(t, twoBlocks)
	if box := v.BoxAt(13, 14); box == nil || box.Range() != dom.NewRange(9, 14) {
		t.Errorf("expected the second line at (13,14)")
	}
	if box := v.BoxForRange(dom.NewRange(4, 10)); box == nil || box.Range() != dom.NewRange(2, 20) {
		t.Errorf("expected block1 to cover [4,10]")
	}
	v.Move(cursor.MoveToOffset{Offset: 5})
	if area := v.CaretArea(); area.X != 12 || area.Y != 0 {
		t.Errorf("expected the caret at (12,0), got %v", area)
	}
}

func TestMoveReportsResult(t *testing.T) {
	v := newView(t, twoBlocks)
	if got := v.Move(cursor.MoveLeft{}); got != cursor.AtBoundary {
		t.Errorf("expected %v, got %v", cursor.AtBoundary, got)
	}
	var seen []int
	v.AddPositionListener(func(offset int) { seen = append(seen, offset) })
	v.Move(cursor.MoveRight{})
	if diff := cmp.Diff([]int{1}, seen); diff != "" {
		t.Errorf("notified offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestPaintDrawsTextAndCaret(t *testing.T) {
	v := newView(t, twoBlocks, WithOverwrite(true))
	v.Move(cursor.MoveToOffset{Offset: 5})
	g := graphics.NewFake()
	v.Paint(g)
	var texts []string
	for _, s := range g.Strings {
		texts = append(texts, s.Text)
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "line1|line2|line3") {
		t.Errorf("expected the lines to be painted, got %q", joined)
	}
	if texts[len(texts)-1] != "n" {
		t.Errorf("expected the overwrite caret to paint its character last, got %q", texts[len(texts)-1])
	}
}

func TestPaintSizedMatchesLayout(t *testing.T) {
	v := newView(t, twoBlocks)
	sizes := map[int]int{36: 72, 1000: 24}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 50 {
			if i%2 == 0 {
				v.SetWidth(1000)
			} else {
				v.SetWidth(36)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			v.PaintSized(func(width, height int) graphics.Graphics {
				if want, ok := sizes[width]; !ok || height != want {
					t.Errorf("painting %dx%d, a size no layout produces", width, height)
				}
				return graphics.NewFake()
			})
		}
	}()
	wg.Wait()

	v.SetWidth(36)
	if w, h := v.Size(); w != 36 || h != 72 {
		t.Errorf("expected size 36x72, got %dx%d", w, h)
	}
}

func TestConcurrentPaintAndEdit(t *testing.T) {
	var logs bytes.Buffer
	v := newView(t, twoBlocks, WithLogger(log.New(&logs, "", 0)))
	v.Move(cursor.MoveToOffset{Offset: 3})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 20 {
			v.Paint(graphics.NewFake())
		}
	}()
	go func() {
		defer wg.Done()
		for range 20 {
			if err := v.Type("a"); err != nil {
				t.Errorf("type: %v", err)
			}
		}
	}()
	wg.Wait()
	if got := blockText(v, 0); !strings.HasPrefix(got, strings.Repeat("a", 20)+"line1") {
		t.Errorf("unexpected text %q", got)
	}
	checkIncremental(t, v)
}
