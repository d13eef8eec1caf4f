// Package layout keeps text measuring, line wrapping, overflow estimation and
// image fitting in one place so pagination and rendering agree.
package layout

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrMissingGlyph is returned by measurers when font cannot render some
	// character of the text.
	ErrMissingGlyph = errors.New("missing glyph")
	// ErrNoFace is returned when measurer has no usable font.
	ErrNoFace = errors.New("no font face")
)

// Measurer returns pixel width of single line of text.
type Measurer interface {
	Measure(text string) (int, error)
}

// MeasureFunc adapts ordinary function to Measurer.
type MeasureFunc func(text string) (int, error)

func (f MeasureFunc) Measure(text string) (int, error) {
	return f(text)
}

// FallbackMeasurer estimates width as number of characters times average
// character width. It never fails.
type FallbackMeasurer struct {
	CharWidth int
}

func (m FallbackMeasurer) Measure(text string) (int, error) {
	return utf8.RuneCountInString(text) * m.CharWidth, nil
}
