package document

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// PlainExtractor handles text and markdown files
type PlainExtractor struct{}

// NewPlainExtractor creates a plain text extractor
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// Name returns the format name
func (e *PlainExtractor) Name() string {
	return "text"
}

// CanHandle matches .txt/.md and text/plain, text/markdown
func (e *PlainExtractor) CanHandle(ext, mediaType string) bool {
	switch ext {
	case ".txt", ".text", ".md", ".markdown":
		return true
	}
	return mediaType == "text/plain" || mediaType == "text/markdown"
}

// Extract returns the text with a leading byte order mark removed
func (e *PlainExtractor) Extract(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))), nil
}
