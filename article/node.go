package article

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies element nodes for segmentation.
type Kind int

const (
	KindOther Kind = iota
	KindHeading
	KindParagraph
	KindListItem
	KindList
	KindTable
	KindImage
	KindRule
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindListItem:
		return "list-item"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindRule:
		return "rule"
	default:
		return "other"
	}
}

func kindOf(a atom.Atom) Kind {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return KindHeading
	case atom.P:
		return KindParagraph
	case atom.Li:
		return KindListItem
	case atom.Ul, atom.Ol:
		return KindList
	case atom.Table:
		return KindTable
	case atom.Img:
		return KindImage
	case atom.Hr:
		return KindRule
	default:
		return KindOther
	}
}

// Node is an element of the document. ID is position of the element in
// document order and is stable for the lifetime of the Document.
type Node struct {
	ID   int
	Kind Kind
	Tag  string

	n   *html.Node
	doc *Document
}

func (n *Node) Attr(name string) string {
	for _, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (n *Node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.Attr("class")), class)
}

// Source returns image reference of img element. Lazy loaded images keep it
// in data-src.
func (n *Node) Source() string {
	if n.Kind != KindImage {
		return ""
	}
	if src := strings.TrimSpace(n.Attr("src")); src != "" && !strings.HasPrefix(src, "data:image/gif") {
		return src
	}
	if src := strings.TrimSpace(n.Attr("data-src")); src != "" {
		return src
	}
	return strings.TrimSpace(n.Attr("src"))
}

// Children returns child elements.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if e := n.doc.wrap(c); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Descendants returns all elements below n matching pred in document order.
func (n *Node) Descendants(pred func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			e := n.doc.wrap(c)
			if e == nil {
				continue
			}
			if pred == nil || pred(e) {
				out = append(out, e)
			}
			walk(c)
		}
	}
	walk(n.n)
	return out
}

// Contains reports if any element below n matches pred.
func (n *Node) Contains(pred func(*Node) bool) bool {
	return len(n.Descendants(pred)) > 0
}

// Images returns references of all images nested in n, in document order.
// Images without reference are skipped.
func (n *Node) Images() []string {
	var out []string
	for _, img := range n.Descendants(func(e *Node) bool { return e.Kind == KindImage }) {
		if src := img.Source(); src != "" {
			out = append(out, src)
		}
	}
	return out
}

// LinkCount returns number of anchors nested in n.
func (n *Node) LinkCount() int {
	return len(n.Descendants(func(e *Node) bool { return e.Tag == "a" }))
}

// NextSiblings returns following sibling elements in document order up to
// (excluding) the first one for which stop returns true.
func (n *Node) NextSiblings(stop func(*Node) bool) []*Node {
	var out []*Node
	for s := n.n.NextSibling; s != nil; s = s.NextSibling {
		e := n.doc.wrap(s)
		if e == nil {
			continue
		}
		if stop != nil && stop(e) {
			break
		}
		out = append(out, e)
	}
	return out
}

// PrevSiblings returns preceding sibling elements in reverse document order
// up to (excluding) the first one for which stop returns true.
func (n *Node) PrevSiblings(stop func(*Node) bool) []*Node {
	var out []*Node
	for s := n.n.PrevSibling; s != nil; s = s.PrevSibling {
		e := n.doc.wrap(s)
		if e == nil {
			continue
		}
		if stop != nil && stop(e) {
			break
		}
		out = append(out, e)
	}
	return out
}

// Text returns normalized text of n and its descendants. Runs of white space
// are collapsed, line breaks (<br>) become "\n", empty lines are dropped.
func (n *Node) Text() string {
	var sb strings.Builder
	collectText(&sb, n.n)
	return normalizeText(sb.String())
}

func (n *Node) String() string {
	return n.Kind.String() + "<" + n.Tag + ">#" + strconv.Itoa(n.ID)
}
