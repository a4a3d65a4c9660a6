// Package document turns uploaded or fetched files into plain text.
package document

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for formats no extractor handles
var ErrUnsupported = errors.New("unsupported document type")

// ErrNoText is returned when a document parses but holds no text
var ErrNoText = errors.New("no extractable text")

// Extractor converts one document format to plain text
type Extractor interface {
	// Name returns the format name
	Name() string

	// CanHandle reports whether the extractor handles a file with this
	// extension (lower-case, with dot) or media type
	CanHandle(ext, mediaType string) bool

	// Extract returns the document's visible text
	Extract(data []byte) (string, error)
}

// Registry picks an extractor by file extension or content type
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with the built-in extractors
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewHTMLExtractor())
	r.Register(NewPDFExtractor())
	r.Register(NewDOCXExtractor())
	r.Register(NewPlainExtractor())
	return r
}

// Register adds an extractor; earlier registrations win
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Find returns the extractor for name or contentType, or nil
func (r *Registry) Find(name, contentType string) Extractor {
	ext := strings.ToLower(filepath.Ext(name))
	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = strings.ToLower(mt)
		}
	}

	// Extension is more specific than a generic content type
	if ext != "" {
		for _, e := range r.extractors {
			if e.CanHandle(ext, "") {
				return e
			}
		}
	}
	if mediaType != "" {
		for _, e := range r.extractors {
			if e.CanHandle("", mediaType) {
				return e
			}
		}
	}
	return nil
}

// Extract converts data to normalized plain text
func (r *Registry) Extract(name, contentType string, data []byte) (string, error) {
	e := r.Find(name, contentType)
	if e == nil {
		label := strings.ToLower(filepath.Ext(name))
		if label == "" {
			label = contentType
		}
		return "", fmt.Errorf("%w: %q", ErrUnsupported, label)
	}

	text, err := e.Extract(data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", e.Name(), err)
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return "", fmt.Errorf("extract %s: %w", e.Name(), ErrNoText)
	}
	return text, nil
}

var defaultRegistry = NewRegistry()

// Extract converts a file to plain text, choosing the format by extension
func Extract(name string, data []byte) (string, error) {
	return defaultRegistry.Extract(name, "", data)
}

// ExtractWithType converts data using the file name and, failing that, the content type
func ExtractWithType(name, contentType string, data []byte) (string, error) {
	return defaultRegistry.Extract(name, contentType, data)
}

// Supported reports whether a file name has a supported extension
func Supported(name string) bool {
	return defaultRegistry.Find(name, "") != nil
}

// normalizeWhitespace collapses runs of spaces within lines and drops blank lines
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
