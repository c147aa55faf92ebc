package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/fetch"
	"vexlayout/pkg/graphics"
	"vexlayout/pkg/images"
	"vexlayout/pkg/render"
	"vexlayout/pkg/view"
)

func main() {
	width := flag.Int("w", view.DefaultWidth, "layout width in pixels")
	styleSheet := flag.String("css", "", "style sheet file (default: the document path with a .css extension)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vexview [flags] <document.xml|url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	v, fonts, err := load(path, *styleSheet, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("vexview")
	w.Resize(fyne.NewSize(float32(*width)+40, 700))

	status := widget.NewLabel(path)
	ed := newEditor(v, status)
	renderer := render.NewRenderer(v,
		render.WithFonts(fonts),
		render.WithLogger(log.New(os.Stderr, "vexview: ", 0)),
		render.WithCompletion(func(img image.Image) {
			fyne.Do(func() { ed.setImage(img) })
		}))
	ed.renderer = renderer
	v.AddPositionListener(func(offset int) {
		fyne.Do(func() { status.SetText(fmt.Sprintf("%s  offset %d", path, offset)) })
	})

	scroll := container.NewScroll(ed)
	ed.viewport = scroll
	w.SetContent(container.NewBorder(nil, status, nil, nil, scroll))
	w.SetTitle(fmt.Sprintf("vexview - %s", filepath.Base(path)))
	w.Canvas().Focus(ed)
	renderer.Request(render.LayoutAndPaint)

	w.ShowAndRun()
}

func load(path, sheetPath string, width int) (*view.View, *graphics.FontBank, error) {
	markup, err := fetch.Read(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := dom.Parse(string(markup))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var sheets []*css.StyleSheet
	explicit := sheetPath != ""
	if !explicit {
		sheetPath = fetch.Sibling(path, ".css")
	}
	if source, err := fetch.Read(sheetPath); err == nil {
		sheet, err := css.ParseStyleSheet(string(source))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", sheetPath, err)
		}
		sheets = append(sheets, sheet)
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	fonts := graphics.NewFontBank()
	v := view.New(doc, css.NewResolver(css.ScreenDevice, sheets...),
		view.WithWidth(width),
		view.WithGraphics(graphics.NewGG(1, 1, css.ScreenDevice, fonts)),
		view.WithImages(images.NewCache(imageBase(path))))
	return v, fonts, nil
}

func imageBase(docPath string) string {
	if fetch.IsNetworkURL(docPath) {
		return docPath
	}
	return filepath.Dir(docPath)
}
