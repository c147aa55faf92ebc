package css

import (
	"strconv"
	"strings"

	"vexlayout/pkg/geom"
)

// Style is a bag of specified property values, before resolution.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// ParseInlineStyle parses the value of a style attribute.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for k, v := range parseDeclarations(styleAttr) {
		style.Set(k, v)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties.
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	case "border":
		for _, edge := range []string{"top", "right", "bottom", "left"} {
			expandBorderProperty(style, "border-"+edge, value)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderProperty(style, property, value)
	case "border-width", "border-style", "border-color":
		kind := strings.TrimPrefix(property, "border-")
		parts := strings.Fields(value)
		edges := boxValues(parts)
		for i, edge := range []string{"top", "right", "bottom", "left"} {
			if edges[i] != "" {
				style.Set("border-"+edge+"-"+kind, edges[i])
			}
		}
	case "font":
		expandFontProperty(style, value)
	case "background":
		if _, ok := ParseColor(value); ok || value == "transparent" {
			style.Set("background-color", value)
		}
	case "list-style":
		for _, part := range strings.Fields(value) {
			if _, ok := listStyleTypes[part]; ok {
				style.Set("list-style-type", part)
			}
		}
	default:
		style.Set(property, value)
	}
}

// boxValues spreads 1-4 values onto top, right, bottom, left.
func boxValues(parts []string) [4]string {
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}
	}
	return [4]string{}
}

// expandBoxProperty expands margin/padding shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, value string) {
	values := boxValues(strings.Fields(value))
	for i, edge := range []string{"top", "right", "bottom", "left"} {
		if values[i] != "" {
			style.Set(prefix+"-"+edge, values[i])
		}
	}
}

// expandBorderProperty expands an edge shorthand such as
// "border-top: 1px solid black".
func expandBorderProperty(style *Style, prefix, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case isBorderStyle(part):
			style.Set(prefix+"-style", part)
		case isLength(part) || part == "thin" || part == "medium" || part == "thick":
			style.Set(prefix+"-width", part)
		default:
			style.Set(prefix+"-color", part)
		}
	}
}

func expandFontProperty(style *Style, value string) {
	parts := strings.Fields(value)
	for i, part := range parts {
		switch {
		case part == "bold" || part == "bolder":
			style.Set("font-weight", "bold")
		case part == "italic" || part == "oblique":
			style.Set("font-style", "italic")
		case part == "normal":
		case isLength(strings.SplitN(part, "/", 2)[0]):
			size, lineHeight, hasLineHeight := strings.Cut(part, "/")
			style.Set("font-size", size)
			if hasLineHeight {
				style.Set("line-height", lineHeight)
			}
			if i+1 < len(parts) {
				style.Set("font-family", strings.Join(parts[i+1:], " "))
			}
			return
		}
	}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func isLength(s string) bool {
	_, ok := splitUnit(s)
	return ok
}

// splitUnit separates the number from its unit.
func splitUnit(s string) (unitValue, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '+' || s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return unitValue{}, false
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return unitValue{}, false
	}
	unit := strings.ToLower(s[i:])
	switch unit {
	case "", "px", "pt", "pc", "em", "ex", "in", "cm", "mm", "%":
		return unitValue{value: num, unit: unit}, true
	}
	return unitValue{}, false
}

type unitValue struct {
	value float64
	unit  string
}

// ParseLength resolves an absolute CSS length to pixels. Percentages come
// back relative; em and ex resolve against fontSize.
func ParseLength(s string, fontSize float64, device Device) (geom.Length, bool) {
	switch strings.TrimSpace(s) {
	case "thin":
		return geom.Absolute(1), true
	case "medium":
		return geom.Absolute(3), true
	case "thick":
		return geom.Absolute(5), true
	}
	uv, ok := splitUnit(s)
	if !ok {
		return geom.Length{}, false
	}
	switch uv.unit {
	case "%":
		return geom.Relative(uv.value), true
	case "em":
		return geom.Length{Value: uv.value * fontSize}, true
	case "ex":
		return geom.Length{Value: uv.value * fontSize / 2}, true
	}
	return geom.Length{Value: device.ToPixels(uv.value, uv.unit)}, true
}

var namedColors = map[string]geom.Color{
	"red":     {R: 255, G: 0, B: 0},
	"green":   {R: 0, G: 128, B: 0},
	"blue":    {R: 0, G: 0, B: 255},
	"yellow":  {R: 255, G: 255, B: 0},
	"cyan":    {R: 0, G: 255, B: 255},
	"aqua":    {R: 0, G: 255, B: 255},
	"magenta": {R: 255, G: 0, B: 255},
	"fuchsia": {R: 255, G: 0, B: 255},
	"white":   {R: 255, G: 255, B: 255},
	"black":   {R: 0, G: 0, B: 0},
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},
	"orange":  {R: 255, G: 165, B: 0},
	"purple":  {R: 128, G: 0, B: 128},
	"pink":    {R: 255, G: 192, B: 203},
	"brown":   {R: 165, G: 42, B: 42},
	"lime":    {R: 0, G: 255, B: 0},
	"maroon":  {R: 128, G: 0, B: 0},
	"navy":    {R: 0, G: 0, B: 128},
	"olive":   {R: 128, G: 128, B: 0},
	"teal":    {R: 0, G: 128, B: 128},
	"silver":  {R: 192, G: 192, B: 192},
}

// ParseColor understands named colors, #rgb, #rrggbb and rgb(r, g, b).
func ParseColor(colorStr string) (geom.Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if color, ok := namedColors[colorStr]; ok {
		return color, true
	}
	if hex, ok := strings.CutPrefix(colorStr, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return geom.Color{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return geom.Color{}, false
		}
		return geom.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
	}
	if args, ok := strings.CutPrefix(colorStr, "rgb("); ok {
		fields := strings.Split(strings.TrimSuffix(args, ")"), ",")
		if len(fields) != 3 {
			return geom.Color{}, false
		}
		var rgb [3]uint8
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil || n < 0 || n > 255 {
				return geom.Color{}, false
			}
			rgb[i] = uint8(n)
		}
		return geom.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
	}
	return geom.Color{}, false
}
