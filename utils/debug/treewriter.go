// Package debug produces human readable dumps of intermediate processing
// state for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label and quoted value on a single line.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Paragraph writes label followed by unquoted value wrapped at width columns,
// continuation lines are indented one level deeper than label. Text without
// spaces is never broken.
func (tw TreeWriter) Paragraph(depth int, label, value string, width uint) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(":\n")
	if value == "" {
		return
	}
	for line := range strings.SplitSeq(wordwrap.WrapString(value, width), "\n") {
		tw.indent(depth + 1)
		tw.w.WriteString(line)
		tw.w.WriteByte('\n')
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
