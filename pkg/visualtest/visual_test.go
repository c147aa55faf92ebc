package visualtest

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
)

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompareIdentical(t *testing.T) {
	img := uniform(10, 10, color.RGBA{255, 0, 0, 255})
	result, err := Compare(img, img, DefaultOptions())
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !result.Match || result.DifferentPixels != 0 {
		t.Errorf("expected identical images to match, got %+v", result)
	}
}

func TestCompareDifferent(t *testing.T) {
	tmpDir := t.TempDir()
	opts := DefaultOptions()
	opts.DiffPath = filepath.Join(tmpDir, "diff.png")

	result, err := Compare(uniform(10, 10, color.RGBA{255, 0, 0, 255}), uniform(10, 10, color.RGBA{0, 0, 255, 255}), opts)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if result.Match {
		t.Errorf("expected images to not match")
	}
	if result.DifferentPixels != 100 {
		t.Errorf("expected 100 different pixels, got %d", result.DifferentPixels)
	}
	if result.MaxDifference != 255 {
		t.Errorf("expected max difference 255, got %d", result.MaxDifference)
	}
	if _, err := os.Stat(opts.DiffPath); err != nil {
		t.Errorf("diff image was not created: %v", err)
	}
}

func TestCompareWithTolerance(t *testing.T) {
	a := uniform(10, 10, color.RGBA{100, 100, 100, 255})
	b := uniform(10, 10, color.RGBA{102, 102, 102, 255})

	opts := DefaultOptions()
	if result, _ := Compare(a, b, opts); !result.Match {
		t.Errorf("expected images to match with tolerance 2")
	}
	opts.Tolerance = 0
	if result, _ := Compare(a, b, opts); result.Match {
		t.Errorf("expected images to not match with tolerance 0")
	}
}

func TestCompareFuzzyAndPercent(t *testing.T) {
	a := uniform(10, 10, color.White)
	b := uniform(10, 10, color.White)
	a.Set(4, 4, color.Black)
	b.Set(5, 4, color.Black)

	opts := DefaultOptions()
	result, _ := Compare(a, b, opts)
	if result.Match || result.DifferentPixels != 2 {
		t.Fatalf("expected 2 different pixels, got %+v", result)
	}
	opts.FuzzyRadius = 1
	if result, _ := Compare(a, b, opts); !result.Match {
		t.Errorf("expected a one pixel shift to match with radius 1, got %+v", result)
	}
	opts.FuzzyRadius = 0
	opts.MaxDifferentPercent = 2
	if result, _ := Compare(a, b, opts); !result.Match {
		t.Errorf("expected 2%% different pixels to be accepted, got %+v", result)
	}
}

func TestCompareDifferentBounds(t *testing.T) {
	result, err := Compare(uniform(10, 10, color.White), uniform(20, 20, color.White), DefaultOptions())
	if err == nil {
		t.Errorf("expected error for different bounds")
	}
	if result.Match {
		t.Errorf("expected images with different bounds to not match")
	}
}

func TestCompareFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "img.png")
	if err := gg.SavePNG(path, uniform(4, 4, color.White)); err != nil {
		t.Fatal(err)
	}
	result, err := CompareFiles(path, path, DefaultOptions())
	if err != nil || !result.Match {
		t.Errorf("expected a file to match itself, got %+v, %v", result, err)
	}
	if _, err := CompareFiles(path, filepath.Join(tmpDir, "missing.png"), DefaultOptions()); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

const blueBlock = `<root><block>hello</block></root>`
const blueStyle = `root, block { display: block } block { background-color: #0000ff }`

func TestRenderDocument(t *testing.T) {
	img, err := RenderDocument(blueBlock, blueStyle, 100, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := img.Bounds().Dx(); got != 100 {
		t.Errorf("expected width 100, got %d", got)
	}
	r, g, b, _ := img.At(99, img.Bounds().Dy()/2).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("expected the block background at the right edge, got %d,%d,%d", r>>8, g>>8, b>>8)
	}

	again, err := RenderDocument(blueBlock, blueStyle, 100, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	result, err := Compare(img, again, Options{})
	if err != nil || !result.Match {
		t.Errorf("expected rendering to be deterministic, got %+v, %v", result, err)
	}
}

func TestRenderDocumentErrors(t *testing.T) {
	if _, err := RenderDocument(`<root>`, "", 100, ""); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestRenderFile(t *testing.T) {
	tmpDir := t.TempDir()
	xmlPath := filepath.Join(tmpDir, "doc.xml")
	if err := os.WriteFile(xmlPath, []byte(blueBlock), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(StyleSheetPath(xmlPath), []byte(blueStyle), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(tmpDir, "out", "doc.png")
	if err := RenderFile(xmlPath, out, 100); err != nil {
		t.Fatalf("render file: %v", err)
	}
	img, err := gg.LoadPNG(out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("expected width 100, got %d", img.Bounds().Dx())
	}
}
