// Package article adapts HTML (or Markdown) article to a tree of classified
// element nodes with stable identifiers.
package article

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Document is parsed article.
type Document struct {
	root  *html.Node
	index map[*html.Node]*Node
	// all elements in document order, position is element ID
	nodes []*Node
}

func newDocument(root *html.Node) *Document {
	d := &Document{root: root, index: make(map[*html.Node]*Node)}
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		if h.Type == html.ElementNode {
			e := &Node{
				ID:   len(d.nodes),
				Kind: kindOf(h.DataAtom),
				Tag:  strings.ToLower(h.Data),
				n:    h,
				doc:  d,
			}
			d.nodes = append(d.nodes, e)
			d.index[h] = e
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return d
}

func (d *Document) wrap(h *html.Node) *Node {
	if h == nil || h.Type != html.ElementNode {
		return nil
	}
	return d.index[h]
}

// Node returns element by its ID.
func (d *Document) Node(id int) *Node {
	if id < 0 || id >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Len returns number of elements in the document.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Find returns all elements matching pred in document order.
func (d *Document) Find(pred func(*Node) bool) []*Node {
	var out []*Node
	for _, e := range d.nodes {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Headings returns heading elements with given tags (h2, h3...) in document
// order. All requested levels are treated equally.
func (d *Document) Headings(tags ...string) []*Node {
	return d.Find(func(e *Node) bool {
		return e.Kind == KindHeading && slices.Contains(tags, e.Tag)
	})
}

// Container returns first element with the given class or nil.
func (d *Document) Container(class string) *Node {
	if class == "" {
		return nil
	}
	for _, e := range d.nodes {
		if e.HasClass(class) {
			return e
		}
	}
	return nil
}

// Title returns top level title of the article: explicitly marked post title,
// first h1 or document title, whichever is found first. Empty when none.
func (d *Document) Title() string {
	candidates := []func(*Node) bool{
		func(e *Node) bool { return e.Tag == "h1" && e.HasClass("post-title") },
		func(e *Node) bool { return e.Tag == "h1" },
		func(e *Node) bool { return e.n.DataAtom == atom.Title },
	}
	for _, pred := range candidates {
		for _, e := range d.Find(pred) {
			if t := e.Text(); t != "" {
				return t
			}
		}
	}
	return ""
}

// Parse reads HTML document. Input is converted to UTF-8 using content type
// (may be empty), BOM or meta declarations.
func Parse(r io.Reader, contentType string) (*Document, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	return parse(cr)
}

// ParseEncoded reads HTML document in known encoding.
func ParseEncoded(r io.Reader, enc encoding.Encoding) (*Document, error) {
	return parse(enc.NewDecoder().Reader(r))
}

func parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}
	return newDocument(root), nil
}

type loadOptions struct {
	enc encoding.Encoding
}

// LoadOption modifies Load behavior.
type LoadOption func(*loadOptions)

// WithEncoding disables encoding detection for HTML documents.
func WithEncoding(enc encoding.Encoding) LoadOption {
	return func(o *loadOptions) {
		o.enc = enc
	}
}

// IsMarkdown reports if file should be treated as Markdown.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}

// Load reads whole document file into memory and parses it according to its
// extension.
func Load(path string, opts ...LoadOption) (*Document, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch {
	case IsMarkdown(path):
		return ParseMarkdown(data)
	case o.enc != nil:
		return ParseEncoded(bytes.NewReader(data), o.enc)
	default:
		return Parse(bytes.NewReader(data), "")
	}
}
