package css

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
)

// StyleLookup resolves the styles of document nodes.
type StyleLookup interface {
	Styles(node dom.Node) *Styles
}

// inheritedProperties are taken from the parent when not specified.
var inheritedProperties = []string{
	"color",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"text-decoration",
	"line-height",
	"list-style-type",
	"text-align",
	"white-space",
}

var initialValues = map[string]string{
	"display":          "inline",
	"color":            "black",
	"font-family":      "sans-serif",
	"font-size":        "12px",
	"font-style":       "normal",
	"font-weight":      "normal",
	"line-height":      "normal",
	"list-style-type":  "disc",
	"text-align":       "left",
	"white-space":      "normal",
	"background-color": "transparent",
}

// Resolver applies style sheets to the nodes of a document and caches the
// result per node. Styles are a snapshot: call Flush after edits that
// change attributes or the element structure.
type Resolver struct {
	sheets []*StyleSheet
	device Device
	cache  map[dom.Node]*Styles
	root   *Styles
}

func NewResolver(device Device, sheets ...*StyleSheet) *Resolver {
	r := &Resolver{sheets: sheets, device: device, cache: make(map[dom.Node]*Styles)}
	r.root = r.resolve(nil, "", nil, map[string]string{"display": "block"})
	return r
}

func (r *Resolver) Device() Device {
	return r.device
}

// Flush drops all cached styles.
func (r *Resolver) Flush() {
	clear(r.cache)
}

// Styles returns the styles of node. Text takes the styles of its parent;
// comments, processing instructions and includes inherit from their parent
// and render inline inside elements or as blocks at document level.
func (r *Resolver) Styles(node dom.Node) *Styles {
	switch n := node.(type) {
	case nil, *dom.Document:
		return r.root
	case *dom.Text:
		return r.Styles(n.Parent())
	case *dom.Element:
		if s, ok := r.cache[n]; ok {
			return s
		}
		s := r.computeElement(n)
		r.cache[n] = s
		return s
	default:
		if s, ok := r.cache[n]; ok {
			return s
		}
		display := "inline"
		if _, atTop := n.Parent().(*dom.Document); atTop {
			display = "block"
		}
		s := r.resolve(nil, "", r.Styles(n.Parent()), map[string]string{"display": display})
		r.cache[n] = s
		return s
	}
}

func (r *Resolver) computeElement(element *dom.Element) *Styles {
	parent := r.Styles(element.Parent())
	specified := r.cascade(element, "")
	if styleAttr, ok := element.Attribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			specified[property] = value
		}
	}
	styles := r.resolve(element, "", parent, specified)
	for _, pseudo := range []string{"before", "after"} {
		pseudoSpecified := r.cascade(element, pseudo)
		if len(parseContent(pseudoSpecified["content"])) == 0 {
			continue
		}
		pseudoStyles := r.resolve(element, pseudo, styles, pseudoSpecified)
		if pseudoStyles.Display == DisplayNone {
			continue
		}
		if pseudo == "before" {
			styles.before = pseudoStyles
		} else {
			styles.after = pseudoStyles
		}
	}
	return styles
}

// cascade collects the declarations of all matching rules, lowest
// specificity first so that later writes win.
func (r *Resolver) cascade(element *dom.Element, pseudo string) map[string]string {
	type ranked struct {
		rule  Rule
		sheet int
	}
	var matches []ranked
	for i, sheet := range r.sheets {
		for _, rule := range FindMatchingRules(element, sheet, pseudo) {
			matches = append(matches, ranked{rule, i})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity < b.rule.Selector.Specificity
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.Order < b.rule.Order
	})
	specified := make(map[string]string)
	for _, m := range matches {
		for property, value := range m.rule.Declarations {
			specified[property] = value
		}
	}
	return specified
}

func (r *Resolver) resolve(element *dom.Element, pseudo string, parent *Styles, specified map[string]string) *Styles {
	props := make(map[string]string, len(specified)+len(inheritedProperties))
	for k, v := range specified {
		props[k] = v
	}
	for _, p := range inheritedProperties {
		if v, ok := props[p]; ok && v != "inherit" {
			continue
		}
		if parent != nil {
			props[p] = parent.properties[p]
		} else {
			props[p] = initialValues[p]
		}
	}
	for p, v := range props {
		if v == "inherit" {
			if parent != nil {
				props[p] = parent.properties[p]
			} else {
				props[p] = initialValues[p]
			}
		}
	}
	get := func(p string) string {
		if v, ok := props[p]; ok {
			return v
		}
		return initialValues[p]
	}

	parentSize := 12.0
	if parent != nil {
		parentSize = parent.Font.Size
	}
	fontSize := r.resolveFontSize(get("font-size"), parentSize)
	props["font-size"] = strconv.FormatFloat(fontSize, 'f', -1, 64) + "px"

	s := &Styles{properties: props, RowSpan: 1, ColSpan: 1}
	s.Display = parseDisplay(get("display"))
	if pseudo != "" && s.Display != DisplayNone && s.Display != DisplayBlock {
		s.Display = DisplayInline
	}
	s.Font = geom.FontSpec{Family: get("font-family"), Size: fontSize}
	if w := get("font-weight"); w == "bold" || w == "bolder" || w >= "600" && w <= "900" {
		s.Font.Style |= geom.FontBold
	}
	if st := get("font-style"); st == "italic" || st == "oblique" {
		s.Font.Style |= geom.FontItalic
	}
	if strings.Contains(get("text-decoration"), "underline") {
		s.Font.Style |= geom.FontUnderline
	}
	s.Color, _ = ParseColor(get("color"))
	if bg, ok := ParseColor(get("background-color")); ok {
		s.BackgroundColor = &bg
	}
	s.LineHeight = r.resolveLineHeight(get("line-height"), fontSize)

	switch get("text-align") {
	case "center":
		s.TextAlign = geom.AlignCenter
	case "right":
		s.TextAlign = geom.AlignRight
	default:
		s.TextAlign = geom.AlignLeft
	}
	switch get("white-space") {
	case "pre", "pre-wrap", "pre-line":
		s.WhiteSpace = WhiteSpacePre
	case "nowrap":
		s.WhiteSpace = WhiteSpaceNoWrap
	}
	s.ListStyleType = listStyleTypes[get("list-style-type")]
	s.InlineMarker = get("-vex-inline-marker") == "normal"

	length := func(p string) geom.Length {
		l, _ := ParseLength(get(p), fontSize, r.device)
		return l
	}
	s.Margin = geom.Margin{Top: length("margin-top"), Left: length("margin-left"), Bottom: length("margin-bottom"), Right: length("margin-right")}
	s.Padding = geom.Padding{Top: length("padding-top"), Left: length("padding-left"), Bottom: length("padding-bottom"), Right: length("padding-right")}
	s.Border = geom.Border{
		Top:    r.borderLine(get, "top", fontSize, s.Color),
		Left:   r.borderLine(get, "left", fontSize, s.Color),
		Bottom: r.borderLine(get, "bottom", fontSize, s.Color),
		Right:  r.borderLine(get, "right", fontSize, s.Color),
	}

	if v, ok := props["content"]; ok && (pseudo != "" || element != nil) {
		s.Content = parseContent(v)
	}
	if element != nil && pseudo == "" && s.Display == DisplayTableCell {
		s.RowSpan = spanAttribute(element, "rowspan")
		s.ColSpan = spanAttribute(element, "colspan")
	}
	return s
}

func (r *Resolver) borderLine(get func(string) string, edge string, fontSize float64, color geom.Color) geom.BorderLine {
	prefix := "border-" + edge
	style := get(prefix + "-style")
	if style == "" || style == "none" || style == "hidden" {
		return geom.BorderLine{}
	}
	line := geom.BorderLine{Width: 3, Color: color}
	switch style {
	case "dashed":
		line.Style = geom.LineDashed
	case "dotted":
		line.Style = geom.LineDotted
	case "double":
		line.Style = geom.LineDouble
	}
	if w, ok := ParseLength(get(prefix+"-width"), fontSize, r.device); ok && !w.Percent {
		line.Width = w.Get(0)
	}
	if c, ok := ParseColor(get(prefix + "-color")); ok {
		line.Color = c
	}
	return line
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 7,
	"x-small":  9,
	"small":    11,
	"medium":   12,
	"large":    14,
	"x-large":  18,
	"xx-large": 24,
}

func (r *Resolver) resolveFontSize(value string, parentSize float64) float64 {
	if size, ok := fontSizeKeywords[value]; ok {
		return size
	}
	switch value {
	case "smaller":
		return parentSize / 1.2
	case "larger":
		return parentSize * 1.2
	}
	l, ok := ParseLength(value, parentSize, r.device)
	if !ok {
		return parentSize
	}
	if l.Percent {
		return parentSize * l.Value / 100
	}
	return l.Value
}

func (r *Resolver) resolveLineHeight(value string, fontSize float64) int {
	if value == "" || value == "normal" {
		return 0
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(math.Round(f * fontSize))
	}
	l, ok := ParseLength(value, fontSize, r.device)
	if !ok {
		return 0
	}
	if l.Percent {
		return int(math.Round(fontSize * l.Value / 100))
	}
	return l.Get(0)
}

func spanAttribute(element *dom.Element, name string) int {
	v, ok := element.Attribute(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
