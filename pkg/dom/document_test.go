package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDocumentOffsets(t *testing.T) {
	doc := NewDocument("root")
	root := doc.RootElement()
	if doc.StartOffset() != 0 || doc.EndOffset() != 3 {
		t.Errorf("expected document [0, 3], got %v", doc.Range())
	}
	if root.StartOffset() != 1 || root.EndOffset() != 2 {
		t.Errorf("expected root [1, 2], got %v", root.Range())
	}
	if !root.IsEmpty() {
		t.Errorf("expected empty root")
	}
}

func TestInsertElementsAndText(t *testing.T) {
	doc := NewDocument("root")
	root := doc.RootElement()
	block1, err := doc.InsertElement(root.EndOffset(), "block")
	if err != nil {
		t.Fatal(err)
	}
	block2, err := doc.InsertElement(root.EndOffset(), "block")
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.InsertText(block1.EndOffset(), "line1 line2 line3"); err != nil {
		t.Fatal(err)
	}
	if err := doc.InsertText(block2.EndOffset(), "line1 line2 line3"); err != nil {
		t.Fatal(err)
	}

	got := []Range{root.Range(), block1.Range(), block2.Range()}
	want := []Range{NewRange(1, 40), NewRange(2, 20), NewRange(21, 39)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if block1.Text() != "line1 line2 line3" {
		t.Errorf("unexpected text %q", block1.Text())
	}
	if n := doc.NodeForInsertionAt(20); n != block1 {
		t.Errorf("expected block1 to receive offset 20, got %v", StartMarker(n))
	}
	if n := doc.NodeForInsertionAt(21); n != root {
		t.Errorf("expected root to receive offset 21, got %v", StartMarker(n))
	}
}

func TestChildrenExposeText(t *testing.T) {
	doc, err := Parse(`<p>one <b>two</b> three</p>`)
	if err != nil {
		t.Fatal(err)
	}
	children := doc.RootElement().Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	var texts []string
	for _, c := range children {
		texts = append(texts, c.Text())
	}
	if diff := cmp.Diff([]string{"one ", "two", " three"}, texts); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if _, ok := children[1].(*Element); !ok {
		t.Errorf("expected the middle child to be an element, got %T", children[1])
	}
}

func TestInsertTextOutsideRootFails(t *testing.T) {
	doc := NewDocument("root")
	err := doc.InsertText(doc.EndOffset(), "x")
	if !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	err = doc.InsertText(doc.RootElement().StartOffset(), "x")
	if !errors.Is(err, ErrNotInsertable) {
		t.Errorf("expected ErrNotInsertable, got %v", err)
	}
}

func TestValidatorRestrictsInsertion(t *testing.T) {
	doc := NewDocument("section")
	doc.SetValidator(NewSchemaValidator(map[string][]string{
		"section": {"para"},
		"para":    {PCDATA},
	}))
	root := doc.RootElement()
	if _, err := doc.InsertElement(root.EndOffset(), "title"); !errors.Is(err, ErrNotInsertable) {
		t.Errorf("expected ErrNotInsertable for title, got %v", err)
	}
	para, err := doc.InsertElement(root.EndOffset(), "para")
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.InsertText(root.EndOffset(), "loose"); !errors.Is(err, ErrNotInsertable) {
		t.Errorf("expected ErrNotInsertable for text in section, got %v", err)
	}
	if err := doc.InsertText(para.EndOffset(), "fine"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeleteBalancedRange(t *testing.T) {
	doc, err := Parse(`<root><p>ab</p><p>cd</p></root>`)
	if err != nil {
		t.Fatal(err)
	}
	ps := doc.RootElement().ChildNodes()
	first, second := ps[0], ps[1]

	unbalanced := NewRange(first.StartOffset()+1, second.StartOffset()+1)
	if err := doc.Delete(unbalanced); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	var changes []Change
	doc.AddChangeListener(func(c Change) { changes = append(changes, c) })
	if err := doc.Delete(first.Range()); err != nil {
		t.Fatal(err)
	}
	if len(doc.RootElement().ChildNodes()) != 1 {
		t.Fatalf("expected one paragraph left")
	}
	if first.Parent() != nil {
		t.Errorf("removed node must be detached")
	}
	if second.StartOffset() != 2 || doc.RootElement().Text() != "cd" {
		t.Errorf("unexpected state %v %q", second.Range(), doc.RootElement().Text())
	}
	if len(changes) != 1 || changes[0].Kind != ContentRemoved || changes[0].Parent != doc.RootElement() {
		t.Errorf("unexpected change events %+v", changes)
	}
}

func TestParseKeepsCommentsAndProcessingInstructions(t *testing.T) {
	input := `<?xml version="1.0"?><!-- head --><doc a="1 &amp; 2"><?render fast?><p>x &lt; y</p><!--c--><xi:include href="other.xml"/></doc>`
	doc, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := doc.RootElement().Attribute("a"); v != "1 & 2" {
		t.Errorf("expected unescaped attribute, got %q", v)
	}
	kinds := []string{}
	for _, n := range doc.RootElement().ChildNodes() {
		kinds = append(kinds, StartMarker(n))
	}
	if diff := cmp.Diff([]string{"<?render...", "<p...", "<!--", "<xi:include..."}, kinds); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.ChildNodes()[0].(*Comment); !ok {
		t.Errorf("expected the leading comment at document level")
	}
	out := doc.String()
	for _, want := range []string{`<!-- head -->`, `<doc a="1 &amp; 2">`, `<?render fast?>`, `<p>x &lt; y</p>`, `<xi:include href="other.xml"/>`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestParsePreservesWhitespaceWhenAsked(t *testing.T) {
	input := "<doc>\n  <pre>a\n  b</pre>\n  <p>  c   d </p>\n</doc>"
	doc, err := Parse(input, WithPreserveWhitespace(func(name string) bool { return name == "pre" }))
	if err != nil {
		t.Fatal(err)
	}
	children := doc.RootElement().ChildNodes()
	if len(children) != 2 {
		t.Fatalf("expected whitespace between blocks to be dropped, got %d children", len(doc.RootElement().Children()))
	}
	if got := children[0].Text(); got != "a\n  b" {
		t.Errorf("expected preserved text, got %q", got)
	}
	if got := children[1].Text(); got != " c d " {
		t.Errorf("expected collapsed text, got %q", got)
	}
}

func TestParseKeepsSpaceBetweenSiblingsOnOneLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		children int
	}{
		{"space between inline siblings", `<p><b>x</b> <i>y</i></p>`, "x y", 3},
		{"tabs collapse to one space", "<p><b>x</b>\t\t<i>y</i></p>", "x y", 3},
		{"indentation between blocks", "<doc>\n  <p>a</p>\n  <p>b</p>\n</doc>", "ab", 2},
		{"leading space in an element", `<p> <b>x</b></p>`, "x", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			root := doc.RootElement()
			if got := root.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if got := len(root.Children()); got != tt.children {
				t.Errorf("children = %d, want %d", got, tt.children)
			}
		})
	}
}

func TestParseIgnoresIncludeContent(t *testing.T) {
	input := `<doc><p>a</p><xi:include href="x.xml" parse="text"><xi:fallback><p>missing</p></xi:fallback>text</xi:include><p>b</p></doc>`
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("content inside an include must be skipped: %v", err)
	}
	kinds := []string{}
	for _, n := range doc.RootElement().ChildNodes() {
		kinds = append(kinds, StartMarker(n))
	}
	if diff := cmp.Diff([]string{"<p...", "<xi:include...", "<p..."}, kinds); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if got := doc.RootElement().Text(); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
	if !strings.Contains(doc.String(), `<xi:include href="x.xml" parse="text"/>`) {
		t.Errorf("include attributes lost in %q", doc.String())
	}
}

func TestIncludeReferenceSharesOffsets(t *testing.T) {
	doc, err := Parse(`<doc><p>a<xi:include href="x.xml"/></p></doc>`)
	if err != nil {
		t.Fatal(err)
	}
	p := doc.RootElement().ChildNodes()[0].(*Element)
	inc := p.ChildNodes()[0].(*IncludeNode)
	ref := inc.Reference()
	if ref.Name() != IncludeElementName || ref.LocalName() != "include" {
		t.Errorf("unexpected reference name %q", ref.Name())
	}
	if href, _ := ref.Attribute("href"); href != "x.xml" || inc.Href() != "x.xml" {
		t.Errorf("unexpected href %q / %q", href, inc.Href())
	}
	if ref.Parent() != p {
		t.Errorf("reference must resolve against the include's parent")
	}
	if ref.Range() != inc.Range() {
		t.Errorf("reference range %v, include range %v", ref.Range(), inc.Range())
	}
	if err := doc.InsertText(p.StartOffset()+1, "zz"); err != nil {
		t.Fatal(err)
	}
	if ref := inc.Reference(); ref.Range() != inc.Range() {
		t.Errorf("reference must follow edits: %v vs %v", ref.Range(), inc.Range())
	}
}

func TestParseRejectsMismatchedTags(t *testing.T) {
	if _, err := Parse(`<a><b></a></b>`); err == nil {
		t.Errorf("expected an error for mismatched tags")
	}
	if _, err := Parse(`<a><b>`); err == nil {
		t.Errorf("expected an error for unclosed tags")
	}
}
