package geom

import (
	"fmt"
	"strings"
)

type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGBA returns the components scaled to [0, 1] with full opacity, the form
// gg's SetRGBA expects.
func (c Color) RGBA() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, 1
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FontStyle is a bit set.
type FontStyle int

const (
	FontPlain     FontStyle = 0
	FontBold      FontStyle = 1 << 0
	FontItalic    FontStyle = 1 << 1
	FontUnderline FontStyle = 1 << 2
)

// FontSpec identifies a font independently from any graphics backend.
// Family is a comma separated preference list as written in CSS.
type FontSpec struct {
	Family string
	Style  FontStyle
	Size   float64
}

func (f FontSpec) Families() []string {
	var families []string
	for _, name := range strings.Split(f.Family, ",") {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			families = append(families, name)
		}
	}
	return families
}

func (f FontSpec) IsBold() bool      { return f.Style&FontBold != 0 }
func (f FontSpec) IsItalic() bool    { return f.Style&FontItalic != 0 }
func (f FontSpec) IsUnderline() bool { return f.Style&FontUnderline != 0 }

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// LineWrappingRule says whether a line may, must or must not break at the
// start or end edge of an inline box.
type LineWrappingRule int

const (
	WrapAllowed LineWrappingRule = iota
	WrapRequired
	WrapNotAllowed
)

func (r LineWrappingRule) String() string {
	switch r {
	case WrapRequired:
		return "REQUIRED"
	case WrapNotAllowed:
		return "NOT_ALLOWED"
	default:
		return "ALLOWED"
	}
}

// CombineWrapping merges the rules of two touching edges. REQUIRED dominates, then
// NOT_ALLOWED.
func CombineWrapping(a, b LineWrappingRule) LineWrappingRule {
	if a == WrapRequired || b == WrapRequired {
		return WrapRequired
	}
	if a == WrapNotAllowed || b == WrapNotAllowed {
		return WrapNotAllowed
	}
	return WrapAllowed
}
