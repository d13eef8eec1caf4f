package content

import (
	"path/filepath"
	"strconv"

	"cardgen/utils/debug"
)

const dumpWidth = 76

type treeWriter struct {
	*debug.TreeWriter
}

func (tw treeWriter) units(depth int, units []Unit) {
	for i, u := range units {
		switch {
		case u.IsImage():
			tw.Line(depth, "[%d] image %q", i, filepath.Base(u.Value()))
		case u.IsBullet():
			tw.Paragraph(depth, "["+strconv.Itoa(i)+"] bullet", u.BulletText(), dumpWidth)
		default:
			tw.Paragraph(depth, "["+strconv.Itoa(i)+"] text", u.Value(), dumpWidth)
		}
	}
}

// DumpSections returns readable tree of segmentation results. It exists solely
// for manual inspection during debugging.
func DumpSections(sections []Section) string {
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Sections: %d", len(sections))
	for i, s := range sections {
		if s.LeadIn {
			tw.Line(1, "Section #%d (lead-in) units: %d", i+1, len(s.Units))
		} else {
			tw.Line(1, "Section #%d units: %d", i+1, len(s.Units))
		}
		tw.TextBlock(2, "title", s.Title)
		tw.units(2, s.Units)
	}
	return tw.String()
}

// DumpCards returns readable tree of pagination results.
func DumpCards(cards []Card) string {
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Cards: %d", len(cards))
	for i, c := range cards {
		tw.Line(1, "Card #%d units: %d images: %d characters: %d continuation: %t",
			i+1, len(c.Units), c.Images(), c.TextLen(), c.Continuation)
		tw.TextBlock(2, "title", c.Title)
		tw.units(2, c.Units)
	}
	return tw.String()
}
