package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/graphics"
	"vexlayout/pkg/images"
	"vexlayout/pkg/render"
	"vexlayout/pkg/view"
)

// fonts is shared by all renders so faces are parsed once per process.
var fonts = graphics.NewFontBank()

// RenderDocument lays out markup styled by styleSheet at width and paints
// it. Relative image locations resolve against base.
func RenderDocument(markup, styleSheet string, width int, base string) (image.Image, error) {
	doc, err := dom.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	sheet, err := css.ParseStyleSheet(styleSheet)
	if err != nil {
		return nil, fmt.Errorf("style sheet error: %w", err)
	}

	v := view.New(doc, css.NewResolver(css.ScreenDevice, sheet),
		view.WithWidth(width),
		view.WithGraphics(graphics.NewGG(1, 1, css.ScreenDevice, fonts)),
		view.WithImages(images.NewCache(base)))
	r := render.NewRenderer(v, render.WithFonts(fonts))
	r.Request(render.LayoutAndPaint)
	r.Wait()
	img := r.Image()
	if img == nil {
		return nil, render.ErrNoImage
	}
	return img, nil
}

// RenderFile renders the document at xmlPath, styled by the style sheet
// next to it with the same base name, into a PNG at outputPath.
func RenderFile(xmlPath, outputPath string, width int) error {
	markup, err := os.ReadFile(xmlPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	styleSheet, err := os.ReadFile(StyleSheetPath(xmlPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read style sheet: %w", err)
	}

	img, err := RenderDocument(string(markup), string(styleSheet), width, filepath.Dir(xmlPath))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := gg.SavePNG(outputPath, img); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// StyleSheetPath returns the style sheet belonging to a document file.
func StyleSheetPath(xmlPath string) string {
	return replaceExt(xmlPath, ".css")
}

// ReferencePath returns the reference image belonging to a document file.
func ReferencePath(xmlPath string) string {
	return replaceExt(xmlPath, ".png")
}

func replaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}

// ReferenceWidth is the layout width of reference images.
const ReferenceWidth = 400

// UpdateReference renders a new reference image for xmlPath. Use it when
// rendering changed on purpose.
func UpdateReference(xmlPath string) error {
	fmt.Printf("Updating reference image: %s\n", ReferencePath(xmlPath))
	return RenderFile(xmlPath, ReferencePath(xmlPath), ReferenceWidth)
}
