// Package images loads the pictures referenced by documents.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"vexlayout/pkg/fetch"
)

var ErrInvalidDataURI = errors.New("invalid data URI")

// Cache loads images once per location. Relative locations resolve
// against Base, a directory or the URL of the document. It is safe for
// concurrent use.
type Cache struct {
	Base string

	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewCache(base string) *Cache {
	return &Cache{Base: base, cache: make(map[string]image.Image)}
}

// IsDataURI reports whether location carries the image inline.
func IsDataURI(location string) bool {
	return strings.HasPrefix(location, "data:")
}

// Load returns the image at location, a file path, a file URL, a network
// URL or a data URI.
func (c *Cache) Load(location string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.cache[location]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	var err error
	if IsDataURI(location) {
		img, err = LoadDataURI(location)
	} else {
		img, err = load(c.resolve(location))
	}
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", shorten(location), err)
	}

	c.mu.Lock()
	if c.cache == nil {
		c.cache = make(map[string]image.Image)
	}
	c.cache[location] = img
	c.mu.Unlock()
	return img, nil
}

// Dimensions returns the intrinsic size of the image at location.
func (c *Cache) Dimensions(location string) (width, height int, err error) {
	img, err := c.Load(location)
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

func (c *Cache) resolve(location string) string {
	if fetch.IsNetworkURL(location) || c.Base == "" {
		return location
	}
	if fetch.IsNetworkURL(c.Base) {
		return fetch.Resolve(c.Base, location)
	}
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		location = u.Path
	}
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(c.Base, location)
}

func load(location string) (image.Image, error) {
	data, err := fetch.Read(location)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// LoadDataURI decodes a base64 data URI.
func LoadDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, ErrInvalidDataURI
	}
	header, data, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func shorten(location string) string {
	if len(location) > 40 {
		return location[:40] + "..."
	}
	return location
}
