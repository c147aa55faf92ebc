package graphics

import (
	"log"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"vexlayout/pkg/geom"
)

// FontBank turns font specs into faces. Faces are built from the Go fonts
// and cached; if a font cannot be parsed the bank falls back to the fixed
// 7x13 bitmap face.
type FontBank struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[geom.FontSpec]font.Face
}

func NewFontBank() *FontBank {
	return &FontBank{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[geom.FontSpec]font.Face),
	}
}

var fontData = map[string][]byte{
	"regular":          goregular.TTF,
	"bold":             gobold.TTF,
	"italic":           goitalic.TTF,
	"bold-italic":      gobolditalic.TTF,
	"mono":             gomono.TTF,
	"mono-bold":        gomonobold.TTF,
	"mono-italic":      gomonoitalic.TTF,
	"mono-bold-italic": gomonobolditalic.TTF,
}

// variant picks the Go font variant closest to spec.
func variant(spec geom.FontSpec) string {
	name := ""
	for _, family := range spec.Families() {
		family = strings.ToLower(family)
		if strings.Contains(family, "mono") || strings.Contains(family, "courier") {
			name = "mono"
			break
		}
	}
	style := ""
	switch {
	case spec.IsBold() && spec.IsItalic():
		style = "bold-italic"
	case spec.IsBold():
		style = "bold"
	case spec.IsItalic():
		style = "italic"
	}
	switch {
	case name == "":
		if style == "" {
			return "regular"
		}
		return style
	case style == "":
		return name
	}
	return name + "-" + style
}

// Face returns the face for spec, sized in pixels.
func (b *FontBank) Face(spec geom.FontSpec) font.Face {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := spec
	key.Style &^= geom.FontUnderline
	if face, ok := b.faces[key]; ok {
		return face
	}
	face := b.newFace(key)
	b.faces[key] = face
	return face
}

func (b *FontBank) newFace(spec geom.FontSpec) font.Face {
	name := variant(spec)
	f, ok := b.fonts[name]
	if !ok {
		parsed, err := opentype.Parse(fontData[name])
		if err != nil {
			log.Printf("graphics: parse font %s: %v", name, err)
			return basicfont.Face7x13
		}
		b.fonts[name] = parsed
		f = parsed
	}
	size := spec.Size
	if size <= 0 {
		size = 12
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("graphics: create face %s/%g: %v", name, size, err)
		return basicfont.Face7x13
	}
	return face
}
