package visualization

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/graphics"
)

func build(t *testing.T, markup, sheet string, opts ...dom.ParseOption) (*dom.Document, *boxes.RootBox) {
	t.Helper()
	doc, err := dom.Parse(markup, opts...)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	resolver := css.NewResolver(css.ScreenDevice, css.MustParseStyleSheet(sheet))
	return doc, NewCSSBasedBuilder(resolver, nil).VisualizeRoot(doc)
}

// shape lists the type names of the tree, indented by depth.
func shape(b boxes.Box) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(boxes.Dump(b), "\n"), "\n") {
		name, _, _ := strings.Cut(line, " (")
		lines = append(lines, name)
	}
	return lines
}

func TestVisualizeBlocks(t *testing.T) {
	_, root := build(t, `<root><block>line1 line2 line3</block><block>line1 line2 line3</block></root>`,
		`root, block { display: block }`)
	want := []string{
		"RootBox",
		"  StructuralNodeReference",
		"    VerticalBlock",
		"      StructuralNodeReference",
		"        VerticalBlock",
		"          StructuralNodeReference",
		"            VerticalBlock",
		"              Paragraph",
		"                TextContent",
		"          StructuralNodeReference",
		"            VerticalBlock",
		"              Paragraph",
		"                TextContent",
	}
	if diff := cmp.Diff(want, shape(root)); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}

	root.SetWidth(36)
	root.Layout(graphics.NewFake())
	boxes.CheckRanges(root)
	if root.Height() != 72 {
		t.Errorf("expected two blocks of three lines, got height %d", root.Height())
	}
}

func TestVisualizeReferencesKnowTheirContent(t *testing.T) {
	doc, root := build(t, `<root><block>text</block></root>`, `root, block { display: block }`)
	var refs []*boxes.StructuralNodeReference
	boxes.Walk(root, func(b boxes.Box) bool {
		if ref, ok := b.(*boxes.StructuralNodeReference); ok {
			refs = append(refs, ref)
		}
		return true
	})
	if len(refs) != 3 {
		t.Fatalf("expected 3 node references, got %d", len(refs))
	}
	if refs[0].Node() != dom.Node(doc) || refs[1].Node() != dom.Node(doc.RootElement()) {
		t.Errorf("expected the document and the root element first")
	}
	block := refs[2]
	if !block.ContainsInlineContent || !block.CanContainText {
		t.Errorf("expected the block to hold inline content")
	}
	if refs[1].ContainsInlineContent {
		t.Errorf("expected the root to hold blocks only")
	}
}

func TestVisualizeInlineRunsBecomeParagraphs(t *testing.T) {
	_, root := build(t, `<root>one <em>two</em> three<block>four</block>five</root>`,
		`root, block { display: block }`)
	want := []string{
		"RootBox",
		"  StructuralNodeReference",
		"    VerticalBlock",
		"      StructuralNodeReference",
		"        VerticalBlock",
		"          Paragraph",
		"            TextContent",
		"            InlineNodeReference",
		"              InlineContainer",
		"                TextContent",
		"            TextContent",
		"          StructuralNodeReference",
		"            VerticalBlock",
		"              Paragraph",
		"                TextContent",
		"          Paragraph",
		"            TextContent",
	}
	if diff := cmp.Diff(want, shape(root)); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizeEmptyElementGetsPlaceholder(t *testing.T) {
	doc, root := build(t, `<root><block></block></root>`, `root, block { display: block }`)
	var placeholder *boxes.NodeEndOffsetPlaceholder
	boxes.Walk(root, func(b boxes.Box) bool {
		if p, ok := b.(*boxes.NodeEndOffsetPlaceholder); ok {
			placeholder = p
		}
		return true
	})
	if placeholder == nil {
		t.Fatalf("expected a placeholder in\n%s", boxes.Dump(root))
	}
	block := doc.RootElement().Children()[0]
	if placeholder.Node() != block || placeholder.StartOffset() != block.EndOffset() {
		t.Errorf("expected the placeholder at the end of the block, got %d", placeholder.StartOffset())
	}
	root.SetWidth(100)
	root.Layout(graphics.NewFake())
	if placeholder.Height() != 12 {
		t.Errorf("expected a placeholder one line high, got %d", placeholder.Height())
	}
}

func TestVisualizeElementWithNoContentAllowed(t *testing.T) {
	validator := dom.NewSchemaValidator(map[string][]string{
		"root":  {"block", "image"},
		"image": {},
	})
	_, root := build(t, `<root><image></image></root>`, `root, image { display: block }`, dom.WithValidator(validator))
	var texts []string
	boxes.Walk(root, func(b boxes.Box) bool {
		if s, ok := b.(*boxes.StaticText); ok {
			texts = append(texts, s.Text())
		}
		return true
	})
	if diff := cmp.Diff([]string{"<image/>"}, texts); diff != "" {
		t.Errorf("static text mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizePseudoElements(t *testing.T) {
	_, root := build(t, `<root><block id="b1">body</block><span>inline</span></root>`, `
		root, block { display: block }
		block::before { content: "[" attr(id) "]"; display: block }
		span::after { content: "!" }
	`)
	var texts []string
	boxes.Walk(root, func(b boxes.Box) bool {
		if s, ok := b.(*boxes.StaticText); ok {
			texts = append(texts, s.Text())
		}
		return true
	})
	if diff := cmp.Diff([]string{"[", "b1", "]", "!"}, texts); diff != "" {
		t.Errorf("generated content mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizeInlineMarkers(t *testing.T) {
	_, root := build(t, `<root><para>see <em>this</em> and <b>that</b></para></root>`, `
		root, para { display: block }
		em { -vex-inline-marker: normal }
		em::after { content: "!" }
	`)
	var texts []string
	boxes.Walk(root, func(b boxes.Box) bool {
		if s, ok := b.(*boxes.StaticText); ok {
			texts = append(texts, s.Text())
		}
		return true
	})
	if diff := cmp.Diff([]string{"<em>", "!", "</em>"}, texts); diff != "" {
		t.Errorf("inline markers mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizeIncludeShowsReferencedElement(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		want  []string
	}{
		{
			name:  "styled reference",
			sheet: `include { content: "include " attr(href) } include::before { content: "[" }`,
			want:  []string{"[", "include ", "ch1.xml"},
		},
		{
			name: "unstyled reference",
			want: []string{`<xi:include href="ch1.xml"/>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, root := build(t, `<root><para>see <xi:include href="ch1.xml"/></para></root>`,
				"root, para { display: block } "+tt.sheet)
			var texts []string
			var ref *boxes.InlineNodeReference
			boxes.Walk(root, func(b boxes.Box) bool {
				switch b := b.(type) {
				case *boxes.StaticText:
					texts = append(texts, b.Text())
				case *boxes.InlineNodeReference:
					if _, ok := b.Node().(*dom.IncludeNode); ok {
						ref = b
					}
				case *boxes.NodeEndOffsetPlaceholder:
					t.Errorf("unexpected placeholder for %v", b.Node())
				}
				return true
			})
			if diff := cmp.Diff(tt.want, texts); diff != "" {
				t.Errorf("include content mismatch (-want +got):\n%s", diff)
			}
			if ref == nil {
				t.Fatalf("expected an inline reference for the include in\n%s", boxes.Dump(root))
			}
			inc := doc.RootElement().ChildNodes()[0].(*dom.Element).ChildNodes()[0]
			if ref.StartOffset() != inc.StartOffset() || ref.EndOffset() != inc.EndOffset() {
				t.Errorf("reference covers %d..%d, want %v", ref.StartOffset(), ref.EndOffset(), inc.Range())
			}
		})
	}
}

func TestVisualizeList(t *testing.T) {
	_, root := build(t, `<root><list><item>one</item><item>two</item></list></root>`, `
		root, list { display: block }
		list { list-style-type: decimal }
		item { display: list-item }
	`)
	var list *boxes.List
	boxes.Walk(root, func(b boxes.Box) bool {
		if l, ok := b.(*boxes.List); ok {
			list = l
			return false
		}
		return true
	})
	if list == nil {
		t.Fatalf("expected a list in\n%s", boxes.Dump(root))
	}
	if n := len(list.Items()); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
	root.SetWidth(200)
	root.Layout(graphics.NewFake())
	var bullets []string
	for _, item := range list.Items() {
		if s, ok := item.Bullet().(*boxes.StaticText); ok {
			bullets = append(bullets, s.Text())
		}
	}
	if diff := cmp.Diff([]string{"1.", "2."}, bullets); diff != "" {
		t.Errorf("bullets mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizeTable(t *testing.T) {
	_, root := build(t, `<root><table><tr><td>a</td><td rowspan="2">b</td></tr><tr><td>c</td></tr></table></root>`, `
		root { display: block }
		table { display: table }
		tr { display: table-row }
		td { display: table-cell }
	`)
	var table *boxes.Table
	var cells []*boxes.TableCell
	boxes.Walk(root, func(b boxes.Box) bool {
		switch b := b.(type) {
		case *boxes.Table:
			table = b
		case *boxes.TableCell:
			cells = append(cells, b)
		}
		return true
	})
	if table == nil || len(cells) != 3 {
		t.Fatalf("expected a table with 3 cells in\n%s", boxes.Dump(root))
	}
	if cells[1].RowSpan != 2 {
		t.Errorf("expected the second cell to span 2 rows, got %d", cells[1].RowSpan)
	}
	root.SetWidth(100)
	root.Layout(graphics.NewFake())
	if table.Height() != 24 {
		t.Errorf("expected two rows of one line, got height %d", table.Height())
	}
	if cells[0].AbsoluteLeft() != cells[2].AbsoluteLeft() || cells[1].AbsoluteLeft() <= cells[0].AbsoluteLeft() {
		t.Errorf("expected the cells in two columns")
	}
}

func TestVisualizeMisplacedTablePartsAsBlocks(t *testing.T) {
	_, root := build(t, `<root><td>x</td></root>`, `root { display: block } td { display: table-cell }`)
	boxes.Walk(root, func(b boxes.Box) bool {
		if _, ok := b.(*boxes.TableCell); ok {
			t.Errorf("expected a cell outside a row to become a block")
		}
		return true
	})
}

func TestVisualizePreformattedText(t *testing.T) {
	preserve := dom.WithPreserveWhitespace(func(name string) bool { return name == "pre" })
	_, root := build(t, "<root><pre>ab\ncd\n</pre></root>",
		`root { display: block } pre { display: block; white-space: pre }`, preserve)
	want := []string{
		"RootBox",
		"  StructuralNodeReference",
		"    VerticalBlock",
		"      StructuralNodeReference",
		"        VerticalBlock",
		"          StructuralNodeReference",
		"            VerticalBlock",
		"              Paragraph",
		"                InlineContainer",
		"                  TextContent",
		"                  TextContent",
		"                  NodeEndOffsetPlaceholder",
	}
	if diff := cmp.Diff(want, shape(root)); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	root.SetWidth(200)
	root.Layout(graphics.NewFake())
	if root.Height() != 36 {
		t.Errorf("expected three lines, got height %d\n%s", root.Height(), boxes.Dump(root))
	}
}

func TestEffectiveDisplay(t *testing.T) {
	tests := []struct {
		display, parent, want css.Display
	}{
		{css.DisplayTableRow, css.DisplayTable, css.DisplayTableRow},
		{css.DisplayTableRow, css.DisplayTableRowGroup, css.DisplayTableRow},
		{css.DisplayTableRow, css.DisplayBlock, css.DisplayBlock},
		{css.DisplayTableCell, css.DisplayTableRow, css.DisplayTableCell},
		{css.DisplayTableCell, css.DisplayTable, css.DisplayBlock},
		{css.DisplayInline, css.DisplayTable, css.DisplayInline},
		{css.DisplayListItem, css.DisplayBlock, css.DisplayListItem},
	}
	for _, tt := range tests {
		if got := effectiveDisplay(tt.display, tt.parent); got != tt.want {
			t.Errorf("effectiveDisplay(%v, %v) = %v, want %v", tt.display, tt.parent, got, tt.want)
		}
	}
}
