package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t, 2, 2))
	cache := NewCache("")
	w, h, err := cache.Dimensions(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", w, h)
	}
	first, _ := cache.Load(uri)
	second, _ := cache.Load(uri)
	if first != second {
		t.Errorf("expected the second load to come from the cache")
	}
}

func TestLoadDataURIInvalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64",
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=",
	}
	for _, uri := range tests {
		if _, err := LoadDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
	if _, err := LoadDataURI("data:image/png;base64"); !errors.Is(err, ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}
}

func TestLoadRelativeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), encodeTestPNG(t, 3, 5), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cache := NewCache(dir)
	w, h, err := cache.Dimensions("logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 3 || h != 5 {
		t.Errorf("expected 3x5 image, got %dx%d", w, h)
	}
	if _, err := cache.Load("missing.png"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestLoadRelativeToDocumentURL(t *testing.T) {
	logo := encodeTestPNG(t, 4, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/img/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(logo)
	}))
	defer srv.Close()

	cache := NewCache(srv.URL + "/docs/manual.xml")
	w, h, err := cache.Dimensions("img/logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 4 || h != 2 {
		t.Errorf("expected 4x2 image, got %dx%d", w, h)
	}
	if _, err := cache.Load("img/missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
