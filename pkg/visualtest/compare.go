// Package visualtest renders documents to images and compares them with
// reference images.
package visualtest

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Result describes how two images differ.
type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference, 0-255
}

// DifferentPercent is the share of differing pixels.
func (r *Result) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

type Options struct {
	// Tolerance is the largest channel difference two pixels may have and
	// still be equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any expected pixel within the radius,
	// which absorbs glyphs shifted by a pixel or two.
	FuzzyRadius int

	// MaxDifferentPercent accepts images whose differing pixels stay at or
	// below this share.
	MaxDifferentPercent float64

	// DiffPath, when set, receives an image with the differing pixels in
	// red over a grey copy of the actual image.
	DiffPath string
}

func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare compares actual with expected pixel by pixel. Images with
// different bounds never match and yield an error.
func Compare(actual, expected image.Image, opts Options) (*Result, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &Result{}, fmt.Errorf("image bounds differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &Result{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	var diff *image.RGBA
	if opts.DiffPath != "" {
		diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := actual.At(x, y)
			d := distance(a, expected.At(x, y))
			result.MaxDifference = max(result.MaxDifference, d)

			same := d <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && matchesNearby(a, expected, x, y, opts))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if diff != nil {
				if same {
					diff.Set(x, y, color.GrayModel.Convert(a))
				} else {
					diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}

	if diff != nil && !result.Match {
		if err := gg.SavePNG(opts.DiffPath, diff); err != nil {
			return result, fmt.Errorf("save diff image: %w", err)
		}
	}
	return result, nil
}

// CompareFiles loads two PNG files and compares them.
func CompareFiles(actualPath, expectedPath string, opts Options) (*Result, error) {
	actual, err := gg.LoadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("load actual image: %w", err)
	}
	expected, err := gg.LoadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("load expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

func matchesNearby(c color.Color, expected image.Image, x, y int, opts Options) bool {
	bounds := expected.Bounds()
	for dy := -opts.FuzzyRadius; dy <= opts.FuzzyRadius; dy++ {
		for dx := -opts.FuzzyRadius; dx <= opts.FuzzyRadius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if distance(c, expected.At(p.X, p.Y)) <= opts.Tolerance {
				return true
			}
		}
	}
	return false
}

// distance is the largest difference between the 8-bit channels of a and b.
func distance(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		channel(ar, br),
		channel(ag, bg),
		channel(ab, bb),
		channel(aa, ba),
	)
}

func channel(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}
