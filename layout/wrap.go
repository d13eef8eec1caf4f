package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Wrapper breaks text into lines using greedy word accumulation. Measurement
// errors switch to fallback width for the failed candidate, wrapping itself
// never fails.
type Wrapper struct {
	measurer  Measurer
	fallback  FallbackMeasurer
	fallbacks int
}

func NewWrapper(m Measurer, avgCharWidth int) *Wrapper {
	return &Wrapper{measurer: m, fallback: FallbackMeasurer{CharWidth: avgCharWidth}}
}

// Fallbacks returns number of measurements which were estimated.
func (w *Wrapper) Fallbacks() int {
	return w.fallbacks
}

// Width measures text, falling back to average character width on error.
func (w *Wrapper) Width(text string) int {
	if w.measurer != nil {
		if n, err := w.measurer.Measure(text); err == nil {
			return n
		}
	}
	w.fallbacks++
	n, _ := w.fallback.Measure(text)
	return n
}

// Wrap splits text on paragraph breaks ("\n") and wraps every non empty
// paragraph to maxWidth pixels. Lines of all paragraphs are returned in order.
func (w *Wrapper) Wrap(text string, maxWidth int) []string {
	var lines []string
	for para := range strings.SplitSeq(text, "\n") {
		lines = append(lines, w.wrapParagraph(para, maxWidth)...)
	}
	return lines
}

func (w *Wrapper) wrapParagraph(text string, maxWidth int) []string {
	var (
		lines []string
		line  string
	)
	for _, tok := range tokenize(text) {
		if line == "" {
			line = tok.text
			continue
		}
		candidate := line + tok.sep + tok.text
		if w.Width(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = tok.text
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Wrap is a shortcut for single use wrapper.
func Wrap(m Measurer, text string, maxWidth, avgCharWidth int) []string {
	return NewWrapper(m, avgCharWidth).Wrap(text, maxWidth)
}

type token struct {
	text string
	// separator to put between previous token and this one on the same line
	sep string
}

// wide characters (CJK) may be broken anywhere, so each one becomes a
// separate token joined without space.
func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

func tokenize(text string) []token {
	var (
		toks []token
		word strings.Builder
		sep  string
	)
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, token{text: word.String(), sep: sep})
			word.Reset()
			sep = ""
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
			if len(toks) > 0 {
				sep = " "
			}
		case isWide(r):
			flush()
			toks = append(toks, token{text: string(r), sep: sep})
			sep = ""
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return toks
}
