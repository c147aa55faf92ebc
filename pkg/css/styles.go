package css

import (
	"strings"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
)

type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayListItem
	DisplayTable
	DisplayTableRowGroup
	DisplayTableRow
	DisplayTableCell
	DisplayTableColumn
	DisplayTableColumnGroup
	DisplayTableCaption
	DisplayNone
)

var displayValues = map[string]Display{
	"inline":             DisplayInline,
	"inline-block":       DisplayInline,
	"block":              DisplayBlock,
	"list-item":          DisplayListItem,
	"table":              DisplayTable,
	"inline-table":       DisplayTable,
	"table-row-group":    DisplayTableRowGroup,
	"table-header-group": DisplayTableRowGroup,
	"table-footer-group": DisplayTableRowGroup,
	"table-row":          DisplayTableRow,
	"table-cell":         DisplayTableCell,
	"table-column":       DisplayTableColumn,
	"table-column-group": DisplayTableColumnGroup,
	"table-caption":      DisplayTableCaption,
	"none":               DisplayNone,
}

// parseDisplay maps unsupported display values to block, the closest
// rendering this engine can produce.
func parseDisplay(value string) Display {
	if d, ok := displayValues[value]; ok {
		return d
	}
	if value == "" {
		return DisplayInline
	}
	return DisplayBlock
}

func (d Display) String() string {
	for name, value := range displayValues {
		if value == d && !strings.Contains(name, "inline-") && !strings.HasSuffix(name, "header-group") && !strings.HasSuffix(name, "footer-group") {
			return name
		}
	}
	return "inline"
}

// IsTablePart reports whether the display value belongs inside a table.
func (d Display) IsTablePart() bool {
	switch d {
	case DisplayTableRowGroup, DisplayTableRow, DisplayTableCell, DisplayTableColumn, DisplayTableColumnGroup, DisplayTableCaption:
		return true
	}
	return false
}

type WhiteSpace int

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpacePre
	WhiteSpaceNoWrap
)

type ListStyleType int

const (
	ListStyleDisc ListStyleType = iota
	ListStyleCircle
	ListStyleSquare
	ListStyleDecimal
	ListStyleDecimalLeadingZero
	ListStyleLowerAlpha
	ListStyleUpperAlpha
	ListStyleLowerRoman
	ListStyleUpperRoman
	ListStyleNone
)

var listStyleTypes = map[string]ListStyleType{
	"disc":                 ListStyleDisc,
	"circle":               ListStyleCircle,
	"square":               ListStyleSquare,
	"decimal":              ListStyleDecimal,
	"decimal-leading-zero": ListStyleDecimalLeadingZero,
	"lower-alpha":          ListStyleLowerAlpha,
	"lower-latin":          ListStyleLowerAlpha,
	"upper-alpha":          ListStyleUpperAlpha,
	"upper-latin":          ListStyleUpperAlpha,
	"lower-roman":          ListStyleLowerRoman,
	"upper-roman":          ListStyleUpperRoman,
	"none":                 ListStyleNone,
}

// IsGraphical reports whether the bullet is drawn rather than written.
func (t ListStyleType) IsGraphical() bool {
	return t == ListStyleDisc || t == ListStyleCircle || t == ListStyleSquare
}

type ContentKind int

const (
	ContentText ContentKind = iota
	ContentAttribute
	ContentURI
	ContentProcessingInstructionTarget
)

// ContentPart is one item of the generated content list. For URIs either
// Text holds the literal location or Attr names the attribute holding it.
type ContentPart struct {
	Kind ContentKind
	Text string
	Attr string
}

// Resolve evaluates the part against node. URIs resolve to their location.
func (p ContentPart) Resolve(node dom.Node) string {
	switch p.Kind {
	case ContentAttribute:
		return attributeOf(node, p.Attr)
	case ContentURI:
		if p.Attr != "" {
			return attributeOf(node, p.Attr)
		}
		return p.Text
	case ContentProcessingInstructionTarget:
		if pi, ok := node.(*dom.ProcessingInstruction); ok {
			return pi.Target()
		}
		return ""
	}
	return p.Text
}

func attributeOf(node dom.Node, name string) string {
	if el, ok := node.(*dom.Element); ok {
		v, _ := el.Attribute(name)
		return v
	}
	return ""
}

// Styles are the resolved styles of one node. They are immutable once
// returned by a StyleLookup.
type Styles struct {
	Display         Display
	WhiteSpace      WhiteSpace
	TextAlign       geom.TextAlign
	LineHeight      int // 0 means the font's own line height
	Font            geom.FontSpec
	Color           geom.Color
	BackgroundColor *geom.Color
	Margin          geom.Margin
	Border          geom.Border
	Padding         geom.Padding
	ListStyleType   ListStyleType
	Content         []ContentPart
	RowSpan         int
	ColSpan         int

	// InlineMarker shows start and end tags around inline elements.
	InlineMarker bool

	before     *Styles
	after      *Styles
	properties map[string]string
}

// Get returns the resolved raw value of a property.
func (s *Styles) Get(property string) string {
	return s.properties[property]
}

// IsContentDefined reports whether the content property generates content.
func (s *Styles) IsContentDefined() bool {
	return len(s.Content) > 0
}

// IsBlock reports whether boxes for these styles stack vertically.
func (s *Styles) IsBlock() bool {
	return s.Display != DisplayInline && s.Display != DisplayNone
}

// PseudoElement returns the styles of ::before or ::after, or nil if the
// pseudo-element generates no content.
func (s *Styles) PseudoElement(name string) *Styles {
	switch name {
	case "before":
		return s.before
	case "after":
		return s.after
	}
	return nil
}

// HasBoxDecoration reports whether margin, border, padding or background
// need a frame.
func (s *Styles) HasBoxDecoration() bool {
	zero := geom.Length{}
	m, p, b := s.Margin, s.Padding, s.Border
	return s.BackgroundColor != nil ||
		m.Top != zero || m.Left != zero || m.Bottom != zero || m.Right != zero ||
		p.Top != zero || p.Left != zero || p.Bottom != zero || p.Right != zero ||
		b.Top.Width != 0 || b.Left.Width != 0 || b.Bottom.Width != 0 || b.Right.Width != 0
}

// parseContent splits a content value into parts: quoted strings,
// attr(name), url(x) / uri(attr(name)) and processing-instruction-target.
func parseContent(value string) []ContentPart {
	var parts []ContentPart
	s := strings.TrimSpace(value)
	for s != "" {
		switch {
		case s[0] == '"' || s[0] == '\'':
			text, rest := readQuoted(s)
			parts = append(parts, ContentPart{Kind: ContentText, Text: text})
			s = rest
		case strings.HasPrefix(s, "attr("):
			arg, rest := readFunctionArgument(s[len("attr("):])
			parts = append(parts, ContentPart{Kind: ContentAttribute, Attr: arg})
			s = rest
		case strings.HasPrefix(s, "url(") || strings.HasPrefix(s, "uri(") || strings.HasPrefix(s, "image("):
			open := strings.IndexByte(s, '(')
			arg, rest := readFunctionArgument(s[open+1:])
			part := ContentPart{Kind: ContentURI}
			if name, ok := strings.CutPrefix(arg, "attr("); ok {
				part.Attr = strings.TrimSuffix(name, ")")
			} else {
				part.Text = strings.Trim(arg, `"'`)
			}
			parts = append(parts, part)
			s = rest
		case strings.HasPrefix(s, "processing-instruction-target"):
			parts = append(parts, ContentPart{Kind: ContentProcessingInstructionTarget})
			s = s[len("processing-instruction-target"):]
		case strings.HasPrefix(s, "none") || strings.HasPrefix(s, "normal"):
			return nil
		default:
			// Unknown token: skip it.
			if i := strings.IndexAny(s, " \t"); i >= 0 {
				s = s[i:]
			} else {
				s = ""
			}
		}
		s = strings.TrimSpace(s)
	}
	return parts
}

func readQuoted(s string) (string, string) {
	quote := s[0]
	var sb strings.Builder
	i := 1
	for ; i < len(s) && s[i] != quote; i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == 'A' || s[i] == 'a' {
				sb.WriteByte('\n')
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	if i < len(s) {
		i++
	}
	return sb.String(), s[i:]
}

// readFunctionArgument reads up to the matching closing parenthesis.
func readFunctionArgument(s string) (string, string) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[:i]), s[i+1:]
			}
		}
	}
	return strings.TrimSpace(s), ""
}
