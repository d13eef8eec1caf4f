package article

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// keep raw HTML blocks (figures, img tags)
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ParseMarkdown converts Markdown source to HTML and parses it.
func ParseMarkdown(src []byte) (*Document, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("unable to convert markdown: %w", err)
	}
	return parse(&buf)
}
