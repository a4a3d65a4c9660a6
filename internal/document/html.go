package document

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor pulls visible text out of HTML pages
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Name returns the format name
func (e *HTMLExtractor) Name() string {
	return "html"
}

// CanHandle matches .html/.htm and HTML media types
func (e *HTMLExtractor) CanHandle(ext, mediaType string) bool {
	switch ext {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Extract returns visible text, preferring <article> or <main> when present
func (e *HTMLExtractor) Extract(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	root := doc
	for _, tag := range []string{"article", "main"} {
		if n := findFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == tag
		}); n != nil {
			root = n
			break
		}
	}

	return visibleText(root), nil
}

// visibleText walks text nodes, skipping scripts and other invisible elements.
// Block elements end a line so paragraphs do not run together.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg", "head", "nav", "footer":
				return
			case "br":
				buf.WriteString("\n")
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "li", "ul", "ol", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6", "tr", "table", "pre", "header":
		return true
	}
	return false
}

// findFirst finds the first node matching a predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}
