// Package content defines data flowing between segmentation, pagination and
// rendering: content units, sections and cards.
package content

import (
	"strings"
	"unicode/utf8"
)

// BulletMarker starts text of list items. Renderer draws a bullet glyph in
// its place.
const BulletMarker = "• "

// ParagraphBreak separates paragraphs inside single text unit.
const ParagraphBreak = "\n"

type UnitKind int

const (
	UnitText UnitKind = iota
	UnitImage
)

func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "text"
	case UnitImage:
		return "image"
	default:
		return "unknown"
	}
}

// Unit is either a piece of text or a resolved local image. Units are
// immutable values.
type Unit struct {
	kind  UnitKind
	value string
}

// Text creates text unit. Caller is responsible for trimming.
func Text(s string) Unit {
	return Unit{kind: UnitText, value: s}
}

// Bullet creates list item text unit.
func Bullet(s string) Unit {
	return Unit{kind: UnitText, value: BulletMarker + s}
}

// Image creates image unit from path of a local (possibly cached) file.
func Image(path string) Unit {
	return Unit{kind: UnitImage, value: path}
}

func (u Unit) Kind() UnitKind { return u.kind }
func (u Unit) IsImage() bool  { return u.kind == UnitImage }
func (u Unit) IsText() bool   { return u.kind == UnitText }

// Value returns text of text unit or path of image unit.
func (u Unit) Value() string { return u.value }

func (u Unit) IsBullet() bool {
	return u.kind == UnitText && strings.HasPrefix(u.value, BulletMarker)
}

// BulletText returns text of the list item without marker, for other units
// it is the same as Value.
func (u Unit) BulletText() string {
	if !u.IsBullet() {
		return u.value
	}
	return strings.TrimSpace(strings.TrimPrefix(u.value, BulletMarker))
}

// Len is number of characters in text unit, 0 for images.
func (u Unit) Len() int {
	if u.kind != UnitText {
		return 0
	}
	return utf8.RuneCountInString(u.value)
}

// Truncate returns text unit cut to at most n characters with ellipsis
// appended when something was cut. Images and short text are returned as is.
func (u Unit) Truncate(n int, ellipsis string) Unit {
	if u.kind != UnitText || n < 0 || u.Len() <= n {
		return u
	}
	runes := []rune(u.value)
	return Unit{kind: UnitText, value: string(runes[:n]) + ellipsis}
}
