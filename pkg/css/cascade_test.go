package css

import (
	"testing"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
)

func parseDoc(t *testing.T, s string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(s)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func firstElement(doc *dom.Document, name string) *dom.Element {
	found := doc.FindElements(func(e *dom.Element) bool { return e.Name() == name })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func TestResolver_SpecificityOverride(t *testing.T) {
	doc := parseDoc(t, `<doc><para class="highlight">x</para></doc>`)
	sheet := MustParseStyleSheet(`
		.highlight { color: blue; }
		para { color: red; }
	`)
	styles := NewResolver(ScreenDevice, sheet).Styles(firstElement(doc, "para"))
	if styles.Color != (geom.Color{B: 255}) {
		t.Errorf("expected blue, got %v", styles.Color)
	}
}

func TestResolver_LaterRuleWinsOnTie(t *testing.T) {
	doc := parseDoc(t, `<doc><para>x</para></doc>`)
	sheet := MustParseStyleSheet(`para { display: block } para { display: list-item }`)
	styles := NewResolver(ScreenDevice, sheet).Styles(firstElement(doc, "para"))
	if styles.Display != DisplayListItem {
		t.Errorf("expected list-item, got %v", styles.Display)
	}
}

func TestResolver_Inheritance(t *testing.T) {
	doc := parseDoc(t, `<doc><pre><b>x</b></pre></doc>`)
	sheet := MustParseStyleSheet(`
		doc { font-size: 10px; color: green; }
		pre { white-space: pre; font-size: 2em; display: block }
		b { font-weight: bold; margin-left: 3px }
	`)
	resolver := NewResolver(ScreenDevice, sheet)
	b := resolver.Styles(firstElement(doc, "b"))
	if b.WhiteSpace != WhiteSpacePre {
		t.Errorf("expected inherited white-space pre")
	}
	if b.Font.Size != 20 {
		t.Errorf("expected inherited font size 20, got %v", b.Font.Size)
	}
	if !b.Font.IsBold() {
		t.Errorf("expected bold font")
	}
	if b.Color != (geom.Color{G: 128}) {
		t.Errorf("expected inherited green, got %v", b.Color)
	}
	if b.Display != DisplayInline {
		t.Errorf("expected default inline display, got %v", b.Display)
	}
	if b.Margin.Left.Get(0) != 3 {
		t.Errorf("expected margin-left 3, got %v", b.Margin.Left)
	}
	if !b.HasBoxDecoration() {
		t.Errorf("expected a margin to count as decoration")
	}
	text := firstElement(doc, "b").Children()[0]
	if resolver.Styles(text) != b {
		t.Errorf("text must share its parent's styles")
	}
}

func TestResolver_UnsupportedDisplayDegradesToBlock(t *testing.T) {
	doc := parseDoc(t, `<doc><box>x</box></doc>`)
	styles := NewResolver(ScreenDevice, MustParseStyleSheet(`box { display: flex }`)).Styles(firstElement(doc, "box"))
	if styles.Display != DisplayBlock {
		t.Errorf("expected block, got %v", styles.Display)
	}
}

func TestResolver_PseudoElements(t *testing.T) {
	doc := parseDoc(t, `<doc><note id="n1">x</note><plain>y</plain></doc>`)
	sheet := MustParseStyleSheet(`
		note::before { content: "Note " attr(id) ": "; font-weight: bold }
		note:after { content: none }
	`)
	resolver := NewResolver(ScreenDevice, sheet)
	note := firstElement(doc, "note")
	before := resolver.Styles(note).PseudoElement("before")
	if before == nil {
		t.Fatalf("expected ::before styles")
	}
	got := ""
	for _, part := range before.Content {
		got += part.Resolve(note)
	}
	if got != "Note n1: " {
		t.Errorf("expected generated content 'Note n1: ', got %q", got)
	}
	if resolver.Styles(note).PseudoElement("after") != nil {
		t.Errorf("content: none must not generate ::after")
	}
	if resolver.Styles(firstElement(doc, "plain")).PseudoElement("before") != nil {
		t.Errorf("unexpected ::before on plain")
	}
}

func TestResolver_BorderAndSpans(t *testing.T) {
	doc := parseDoc(t, `<table><row><cell colspan="2">x</cell></row></table>`)
	sheet := MustParseStyleSheet(`
		cell { display: table-cell; border: 2px solid red; padding: 10% }
	`)
	styles := NewResolver(ScreenDevice, sheet).Styles(firstElement(doc, "cell"))
	if styles.Border.Top.Width != 2 || styles.Border.Left.Color != (geom.Color{R: 255}) {
		t.Errorf("unexpected border %+v", styles.Border)
	}
	if styles.ColSpan != 2 || styles.RowSpan != 1 {
		t.Errorf("expected colspan 2 rowspan 1, got %d/%d", styles.ColSpan, styles.RowSpan)
	}
	if !styles.Padding.Left.Percent || styles.Padding.Left.Get(200) != 20 {
		t.Errorf("expected relative padding, got %v", styles.Padding.Left)
	}
}

func TestResolver_DescendantAndChildCombinators(t *testing.T) {
	doc := parseDoc(t, `<doc><section><title>a</title><p><title>b</title></p></section></doc>`)
	sheet := MustParseStyleSheet(`
		section title { color: red }
		section > title { color: blue }
	`)
	resolver := NewResolver(ScreenDevice, sheet)
	titles := doc.FindElements(func(e *dom.Element) bool { return e.Name() == "title" })
	if resolver.Styles(titles[0]).Color != (geom.Color{B: 255}) {
		t.Errorf("expected the direct child to be blue")
	}
	if resolver.Styles(titles[1]).Color != (geom.Color{R: 255}) {
		t.Errorf("expected the nested title to be red")
	}
}
