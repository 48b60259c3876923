// Package fileuri converts between filesystem paths and file:// URIs.
// Paths are normalized to forward slashes so URIs compare stably across
// platforms; include resolution and the graph key everything by URI.
package fileuri

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// FromPath returns the file:// URI for a filesystem path.
func FromPath(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// ToPath extracts the filesystem path from a file:// URI.
func ToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}

// Dir returns the URI of the directory containing the file the URI names,
// using slash-path semantics.
func Dir(uri string) string {
	path, err := ToPath(uri)
	if err != nil {
		return uri
	}
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "file:///"
	}
	return "file://" + path[:i]
}
