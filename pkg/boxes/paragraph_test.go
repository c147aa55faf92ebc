package boxes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// threeLines builds a root box over "<root>line1 line2 line3</root>"; the
// text lies at offsets 2 to 18.
func threeLines(t *testing.T) (*dom.Document, *RootBox, *Paragraph) {
	t.Helper()
	doc, err := dom.Parse("<root>line1 line2 line3</root>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	text := NewTextContent(doc.Content(), dom.NewRange(2, 18), TextStyle{})
	p := NewParagraph(text)
	block := NewVerticalBlock()
	block.AppendChild(p)
	root := NewRootBox()
	root.AppendChild(block)
	return doc, root, p
}

func lineTexts(p *Paragraph) []string {
	var texts []string
	for _, line := range p.Lines() {
		s := ""
		for _, b := range line.Boxes {
			if tc, ok := b.(*TextContent); ok {
				s += tc.Text()
			}
		}
		texts = append(texts, s)
	}
	return texts
}

func TestParagraphBreaksLines(t *testing.T) {
	_, root, p := threeLines(t)
	g := graphics.NewFake()
	root.SetWidth(36)
	root.Layout(g)

	want := []string{"line1 ", "line2 ", "line3"}
	if diff := cmp.Diff(want, lineTexts(p)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	for i, line := range p.Lines() {
		if line.Top != i*12 {
			t.Errorf("line %d: expected top %d, got %d", i, i*12, line.Top)
		}
		if line.Width != 30 {
			t.Errorf("line %d: expected width 30 without the trailing space, got %d", i, line.Width)
		}
	}
	if root.Height() != 36 {
		t.Errorf("expected height 36, got %d", root.Height())
	}

	var ranges []dom.Range
	for _, child := range p.Children() {
		ranges = append(ranges, child.(*TextContent).Range())
	}
	wantRanges := []dom.Range{dom.NewRange(2, 7), dom.NewRange(8, 13), dom.NewRange(14, 18)}
	if diff := cmp.Diff(wantRanges, ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	CheckRanges(root)
}

func TestParagraphWrapIsMonotonic(t *testing.T) {
	_, root, p := threeLines(t)
	g := graphics.NewFake()
	previous := -1
	for width := 6; width <= 120; width += 6 {
		root.SetWidth(width)
		root.Layout(g)
		lines := len(p.Lines())
		if previous >= 0 && lines > previous {
			t.Errorf("width %d: %d lines after %d lines at a smaller width", width, lines, previous)
		}
		previous = lines
	}
	if previous != 1 {
		t.Errorf("expected a single line at full width, got %d", previous)
	}
}

func TestParagraphLayoutIsIdempotent(t *testing.T) {
	_, root, p := threeLines(t)
	g := graphics.NewFake()
	root.SetWidth(36)
	root.Layout(g)
	first := Dump(root)
	root.Layout(g)
	if diff := cmp.Diff(first, Dump(root)); diff != "" {
		t.Errorf("second layout differs (-first +second):\n%s", diff)
	}

	root.SetWidth(200)
	root.Layout(g)
	if len(p.Children()) != 1 {
		t.Fatalf("expected the fragments to be joined, got %d children", len(p.Children()))
	}
	if got := p.Children()[0].(*TextContent).Range(); got != dom.NewRange(2, 18) {
		t.Errorf("expected joined range [2,18], got %v", got)
	}
}

func TestReconcileMatchesFullLayout(t *testing.T) {
	doc, root, p := threeLines(t)
	g := graphics.NewFake()
	root.SetWidth(36)
	root.Layout(g)

	// Offset 8 is where the second fragment starts.
	if err := doc.InsertText(8, "abc "); err != nil {
		t.Fatalf("insert: %v", err)
	}
	Reconcile(g, p)
	reconciled := Dump(root)
	root.Layout(g)
	if diff := cmp.Diff(Dump(root), reconciled); diff != "" {
		t.Errorf("reconcile differs from layout (-layout +reconcile):\n%s", diff)
	}
	want := []string{"line1 ", "abc ", "line2 ", "line3"}
	if diff := cmp.Diff(want, lineTexts(p)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if root.Height() != 48 {
		t.Errorf("expected the root to grow to 48, got %d", root.Height())
	}
}

func TestRequiredWrappingBreaksLine(t *testing.T) {
	doc, err := dom.Parse("<root>ab\ncd</root>", dom.WithPreserveWhitespace(func(string) bool { return true }))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first := NewTextContent(doc.Content(), dom.NewRange(2, 4), TextStyle{})
	second := NewTextContent(doc.Content(), dom.NewRange(5, 6), TextStyle{})
	if first.LineWrappingAtEnd() != geom.WrapRequired {
		t.Fatalf("expected a required break after a line break")
	}
	p := NewParagraph(first, second)
	p.SetWidth(200)
	p.Layout(graphics.NewFake())
	if len(p.Lines()) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(p.Lines()))
	}
	if second.Top() != 12 || second.Left() != 0 {
		t.Errorf("expected the second text at (12,0), got (%d,%d)", second.Top(), second.Left())
	}
}

func TestUnbreakableTextIsSplitByForce(t *testing.T) {
	doc, err := dom.Parse("<root>abcdefghij</root>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := NewParagraph(NewTextContent(doc.Content(), dom.NewRange(2, 11), TextStyle{}))
	p.SetWidth(24)
	p.Layout(graphics.NewFake())
	want := []string{"abcd", "efgh", "ij"}
	if diff := cmp.Diff(want, lineTexts(p)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestTextAlign(t *testing.T) {
	tests := []struct {
		align geom.TextAlign
		left  int
	}{
		{geom.AlignLeft, 0},
		{geom.AlignCenter, 27},
		{geom.AlignRight, 54},
	}
	for _, tt := range tests {
		p := NewParagraph(NewStaticText("static", TextStyle{}))
		p.TextAlign = tt.align
		p.SetWidth(90)
		p.Layout(graphics.NewFake())
		if got := p.Children()[0].Left(); got != tt.left {
			t.Errorf("align %v: expected left %d, got %d", tt.align, tt.left, got)
		}
	}
}

func TestInlineContainerAlignsBaselines(t *testing.T) {
	square := NewSquare(6, ShapeSquare, geom.Color{})
	text := NewStaticText("ab", TextStyle{})
	c := NewInlineContainer(square, text)
	c.SetMaxWidth(100)
	c.Layout(graphics.NewFake())

	if c.Baseline() != 10 {
		t.Errorf("expected baseline 10, got %d", c.Baseline())
	}
	if c.Height() != 12 {
		t.Errorf("expected height 12, got %d", c.Height())
	}
	if square.Top() != 4 || text.Top() != 0 {
		t.Errorf("expected tops 4 and 0, got %d and %d", square.Top(), text.Top())
	}
	if text.Left() != 6 || c.Width() != 18 {
		t.Errorf("expected text at 6 and width 18, got %d and %d", text.Left(), c.Width())
	}
}

func TestSplitPosition(t *testing.T) {
	widths := func(n int) []int {
		w := make([]int, n)
		for i := range w {
			w[i] = 6
		}
		return w
	}
	tests := []struct {
		text      string
		headWidth int
		force     bool
		want      int
	}{
		{"line1 line2", 36, false, 6},
		{"line1 line2", 30, false, 6},
		{"line1 line2", 24, false, 0},
		{"line1 line2", 24, true, 4},
		{"line1 line2", 0, true, 1},
		{"ab\ncd", 100, false, 3},
		{"a b c", 30, false, 4},
	}
	for _, tt := range tests {
		runes := []rune(tt.text)
		if got := splitPosition(runes, widths(len(runes)), tt.headWidth, tt.force); got != tt.want {
			t.Errorf("splitPosition(%q, %d, %v): expected %d, got %d", tt.text, tt.headWidth, tt.force, tt.want, got)
		}
	}
}
