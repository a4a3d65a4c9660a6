package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/stylometer/internal/document"
)

// Loader resolves batch and CLI sources: URLs through the Fetcher,
// everything else as a local file
type Loader struct {
	fetcher  *Fetcher
	maxBytes int64
}

// NewLoader creates a loader. Local files larger than maxBytes are rejected.
func NewLoader(fetcher *Fetcher, maxBytes int64) *Loader {
	return &Loader{fetcher: fetcher, maxBytes: maxBytes}
}

// Load returns the plain text of source
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	if IsURL(source) {
		if l.fetcher == nil {
			return "", fmt.Errorf("URL sources are not enabled")
		}
		return l.fetcher.FetchText(ctx, source)
	}
	return l.LoadFile(source)
}

// LoadFile reads and extracts a local document
func (l *Loader) LoadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return "", fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), l.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if !document.Supported(path) {
		// Unknown extensions are read as text
		return document.ExtractWithType("", "text/plain", data)
	}
	return document.Extract(path, data)
}

// IsURL reports whether source is an http(s) URL
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
