package convert

import (
	"fmt"
	"regexp"

	"github.com/gosimple/slug"

	"cardgen/config"
)

const maxTitleRunes = 50

var (
	// everything except word characters, white space and hyphens
	reUnsafe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]`)
	reSep    = regexp.MustCompile(`[-\s]+`)
)

// Sanitize turns card title into file name fragment: only word characters
// are kept, runs of white space and hyphens become single underscore, result
// is limited to 50 characters.
func Sanitize(title string) string {
	s := reUnsafe.ReplaceAllString(title, "")
	s = reSep.ReplaceAllString(s, "_")
	if r := []rune(s); len(r) > maxTitleRunes {
		s = string(r[:maxTitleRunes])
	}
	return s
}

// FileName returns name of the card file with 1-based index. Title could be
// transliterated to ASCII first.
func FileName(index int, title, ext string, transliterate bool) string {
	if transliterate {
		title = slug.Make(title)
	}
	name := Sanitize(title)
	if name == "" {
		return fmt.Sprintf("%d.%s", index, ext)
	}
	return config.CleanFileName(fmt.Sprintf("%d_%s.%s", index, name, ext))
}
