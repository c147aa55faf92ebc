package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/fetch"
	"vexlayout/pkg/graphics"
	"vexlayout/pkg/images"
	"vexlayout/pkg/render"
	"vexlayout/pkg/script"
	"vexlayout/pkg/view"
)

func main() {
	width := flag.Int("w", view.DefaultWidth, "layout width in pixels")
	height := flag.Int("h", 0, "minimum image height in pixels")
	output := flag.String("o", "output.png", "output PNG file path")
	styleSheet := flag.String("css", "", "style sheet file (default: the document path with a .css extension)")
	scriptFile := flag.String("script", "", "JavaScript file to run against the document before rendering")
	dump := flag.Bool("dump", false, "print the box tree to stdout")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vexrender [flags] <document.xml|url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	fmt.Fprintf(os.Stderr, "Loading %s...\n", path)
	markup, err := fetch.Read(path)
	if err != nil {
		fail("Error reading document: %v", err)
	}
	doc, err := dom.Parse(string(markup))
	if err != nil {
		fail("Error parsing document: %v", err)
	}

	resolver, err := loadStyles(path, *styleSheet)
	if err != nil {
		fail("Error loading style sheet: %v", err)
	}

	logger := log.New(os.Stderr, "vexrender: ", 0)
	fonts := graphics.NewFontBank()
	v := view.New(doc, resolver,
		view.WithWidth(*width),
		view.WithGraphics(graphics.NewGG(1, 1, css.ScreenDevice, fonts)),
		view.WithImages(images.NewCache(imageBase(path))),
		view.WithLogger(logger))

	if *scriptFile != "" {
		source, err := os.ReadFile(*scriptFile)
		if err != nil {
			fail("Error reading script: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Running %s...\n", *scriptFile)
		if err := script.New(v).Run(string(source)); err != nil {
			fail("Error running script: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Rendering at width %d...\n", v.Width())
	r := render.NewRenderer(v,
		render.WithFonts(fonts),
		render.WithMinHeight(*height),
		render.WithLogger(logger))
	r.Request(render.LayoutAndPaint)
	r.Wait()

	if *dump {
		fmt.Print(v.Dump())
	}
	if err := r.SavePNG(*output); err != nil {
		fail("Error saving PNG: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Saved %dx%d to %s\n", v.Width(), max(v.Height(), *height), *output)
}

// loadStyles reads the style sheet given on the command line, or the one
// next to the document. A missing implicit style sheet leaves every
// element inline.
func loadStyles(docPath, sheetPath string) (*css.Resolver, error) {
	explicit := sheetPath != ""
	if !explicit {
		sheetPath = fetch.Sibling(docPath, ".css")
	}
	source, err := fetch.Read(sheetPath)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return css.NewResolver(css.ScreenDevice), nil
		}
		return nil, err
	}
	sheet, err := css.ParseStyleSheet(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheetPath, err)
	}
	return css.NewResolver(css.ScreenDevice, sheet), nil
}

func imageBase(docPath string) string {
	if fetch.IsNetworkURL(docPath) {
		return docPath
	}
	return filepath.Dir(docPath)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
