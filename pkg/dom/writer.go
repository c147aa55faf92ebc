package dom

import (
	gohtml "html"
	"io"
	"strings"
)

// WriteTo serialises the document as XML.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\"?>\n")
	for _, child := range d.children {
		writeNode(&sb, child)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Element:
		sb.WriteString("<" + n.Name())
		for _, a := range n.attributes {
			sb.WriteString(" " + a.Name + "=\"" + gohtml.EscapeString(a.Value) + "\"")
		}
		if n.IsEmpty() {
			sb.WriteString("/>")
			return
		}
		sb.WriteString(">")
		for _, child := range n.Children() {
			writeNode(sb, child)
		}
		sb.WriteString("</" + n.Name() + ">")
	case *Text:
		sb.WriteString(gohtml.EscapeString(n.Text()))
	case *Comment:
		sb.WriteString("<!--" + n.Text() + "-->")
	case *ProcessingInstruction:
		sb.WriteString("<?" + n.Target())
		if text := n.Text(); text != "" {
			sb.WriteString(" " + text)
		}
		sb.WriteString("?>")
	case *IncludeNode:
		sb.WriteString("<" + IncludeElementName)
		for _, a := range n.reference.attributes {
			sb.WriteString(" " + a.Name + "=\"" + gohtml.EscapeString(a.Value) + "\"")
		}
		sb.WriteString("/>")
	}
}
