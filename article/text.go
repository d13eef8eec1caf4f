package article

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

func skipText(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg:
		return true
	}
	return false
}

func collectText(sb *strings.Builder, h *html.Node) {
	switch h.Type {
	case html.TextNode:
		sb.WriteString(h.Data)
		return
	case html.ElementNode:
		if skipText(h.DataAtom) {
			return
		}
		if h.DataAtom == atom.Br {
			sb.WriteByte('\n')
			return
		}
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
}

func normalizeText(s string) string {
	s = norm.NFC.String(s)
	var lines []string
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// CountWords counts white space separated words. Every wide (CJK) character
// is a word by itself.
func CountWords(s string) int {
	var (
		count  int
		inWord bool
	)
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inWord = false
		case isWide(r):
			count++
			inWord = false
		case !inWord:
			count++
			inWord = true
		}
	}
	return count
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
