package boxes

import (
	"fmt"
	"strings"
)

// Dump renders the tree below b, one box per line, indented by depth.
func Dump(b Box) string {
	var sb strings.Builder
	dump(&sb, b, 0)
	return sb.String()
}

func dump(sb *strings.Builder, b Box, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(sb, "%s (%d,%d %dx%d)", strings.TrimPrefix(fmt.Sprintf("%T", b), "*boxes."),
		b.Top(), b.Left(), b.Width(), b.Height())
	if c, ok := b.(ContentBox); ok {
		fmt.Fprintf(sb, " [%d,%d]", c.StartOffset(), c.EndOffset())
	}
	switch t := b.(type) {
	case *TextContent:
		fmt.Fprintf(sb, " %q", t.Text())
	case *StaticText:
		fmt.Fprintf(sb, " %q", t.Text())
	case *Paragraph:
		fmt.Fprintf(sb, " lines=%d", len(t.Lines()))
	}
	sb.WriteString("\n")
	for _, child := range Children(b) {
		dump(sb, child, indent+1)
	}
}

// CheckRanges verifies that the ranges of the content boxes below root nest
// within the range of their parent content box and appear in document
// order. It panics on the first violation.
func CheckRanges(root Box) {
	last := make(map[ContentBox]ContentBox)
	Walk(root, func(b Box) bool {
		c, ok := b.(ContentBox)
		if !ok {
			return true
		}
		parent := ParentContentBox(c)
		if parent == nil {
			return true
		}
		if !parent.Range().ContainsRange(c.Range()) {
			panic(fmt.Sprintf("boxes: %T %v is not within %T %v", c, c.Range(), parent, parent.Range()))
		}
		if previous := last[parent]; previous != nil {
			same := previous.Range() == c.Range()
			if !same && c.StartOffset() <= previous.EndOffset() && !(previous.IsEmpty() && c.StartOffset() >= previous.StartOffset()) {
				panic(fmt.Sprintf("boxes: %T %v overlaps preceding %T %v", c, c.Range(), previous, previous.Range()))
			}
		}
		last[parent] = c
		return true
	})
}
