// Package fetch reads documents, style sheets and images from files or
// over HTTP.
package fetch

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "vexlayout/1.0 (compatible; Go)"

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// URL retrieves the content at rawURL over HTTP or HTTPS and returns the
// body with its content type.
func URL(rawURL string) (body []byte, contentType string, err error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("HTTP 404 fetching %s: %w", rawURL, fs.ErrNotExist)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Read returns the content at location, a network URL, a file URL or a
// file path.
func Read(location string) ([]byte, error) {
	if IsNetworkURL(location) {
		body, _, err := URL(location)
		return body, err
	}
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		location = u.Path
	}
	return os.ReadFile(location)
}

// Resolve resolves ref against base, a network URL or a file path.
// Absolute references are returned unchanged.
func Resolve(base, ref string) string {
	if IsNetworkURL(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return ref
		}
		refURL, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return baseURL.ResolveReference(refURL).String()
	}
	if IsNetworkURL(ref) || filepath.IsAbs(ref) || base == "" {
		return ref
	}
	return filepath.Join(filepath.Dir(base), ref)
}

// Sibling replaces the extension of location, keeping any query out of
// the result.
func Sibling(location, ext string) string {
	if IsNetworkURL(location) {
		if u, err := url.Parse(location); err == nil {
			u.RawQuery, u.Fragment = "", ""
			u.Path = strings.TrimSuffix(u.Path, filepath.Ext(u.Path)) + ext
			return u.String()
		}
	}
	return strings.TrimSuffix(location, filepath.Ext(location)) + ext
}

// IsNetworkURL reports whether s looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
