// Package segment groups article content into sections keyed on headings.
package segment

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"cardgen/article"
	"cardgen/config"
	"cardgen/content"
)

// ImageResolver maps image reference to local file.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Segmenter walks document once producing sections. Node IDs of everything
// already attributed to a section are kept in processed, so no node
// contributes text twice.
type Segmenter struct {
	doc    *article.Document
	images ImageResolver
	cfg    *config.DocumentConfig
	log    *zap.Logger

	processed map[int]struct{}
}

func New(doc *article.Document, images ImageResolver, cfg *config.DocumentConfig, log *zap.Logger) *Segmenter {
	return &Segmenter{
		doc:       doc,
		images:    images,
		cfg:       cfg,
		log:       log.Named("segment"),
		processed: make(map[int]struct{}),
	}
}

func (s *Segmenter) isProcessed(n *article.Node) bool {
	_, ok := s.processed[n.ID]
	return ok
}

func (s *Segmenter) markProcessed(n *article.Node) {
	s.processed[n.ID] = struct{}{}
}

func (s *Segmenter) isHeading(n *article.Node) bool {
	return n.Kind == article.KindHeading && slices.Contains(s.cfg.HeadingTags, n.Tag)
}

// Sections returns sections in document order. Document without headings
// has no sections.
func (s *Segmenter) Sections(ctx context.Context) []content.Section {
	headings := s.doc.Headings(s.cfg.HeadingTags...)
	if len(headings) == 0 {
		s.log.Debug("No headings found", zap.Strings("tags", s.cfg.HeadingTags))
		return nil
	}

	var sections []content.Section
	if lead, ok := s.leadIn(headings[0]); ok {
		sections = append(sections, lead)
	}

	for i, h := range headings {
		var units []content.Unit
		if i > 0 {
			prev := headings[i-1]
			span := h.PrevSiblings(s.isHeading)
			slices.Reverse(span)
			for _, n := range span {
				// siblings of h may start before previous heading when they
				// live in different containers
				if n.ID > prev.ID {
					units = append(units, s.extract(ctx, n)...)
				}
			}
		}
		for _, n := range h.NextSiblings(s.isHeading) {
			units = append(units, s.extract(ctx, n)...)
		}

		title := h.Text()
		if len(units) == 0 {
			s.log.Debug("Heading without content skipped", zap.String("title", title), zap.Int("node", h.ID))
			continue
		}
		sections = append(sections, content.Section{Title: title, Units: units})
	}
	return sections
}

// leadIn collects introductory paragraphs found before the first heading.
func (s *Segmenter) leadIn(first *article.Node) (content.Section, bool) {
	cfg := &s.cfg.LeadIn

	var items []*article.Node
	if c := s.doc.Container(cfg.ContainerClass); c != nil && c.ID < first.ID {
		for _, n := range c.Children() {
			if n.Kind == article.KindParagraph && n.ID < first.ID &&
				utf8.RuneCountInString(n.Text()) > cfg.ContainerMinLength {
				items = append(items, n)
				s.markProcessed(n)
			}
		}
	}

	// PrevSiblings walks backwards, boundary rule ends the scan
	for _, n := range first.PrevSiblings(func(n *article.Node) bool { return n.Kind == article.KindRule }) {
		if n.Kind != article.KindParagraph || s.isProcessed(n) || !s.qualifies(n) {
			continue
		}
		items = append(items, n)
		s.markProcessed(n)
	}
	if len(items) == 0 {
		return content.Section{}, false
	}

	slices.SortFunc(items, func(a, b *article.Node) int { return a.ID - b.ID })
	if len(items) > cfg.MaxItems {
		items = items[:cfg.MaxItems]
	}
	units := make([]content.Unit, 0, len(items))
	for _, n := range items {
		units = append(units, content.Text(n.Text()))
	}

	title := s.doc.Title()
	if title == "" {
		title = cfg.FallbackTitle
	}
	s.log.Debug("Lead-in found", zap.String("title", title), zap.Int("items", len(units)))
	return content.Section{Title: title, Units: units, LeadIn: true}, true
}

// qualifies rejects short paragraphs, bylines and navigation-like blocks.
func (s *Segmenter) qualifies(n *article.Node) bool {
	cfg := &s.cfg.LeadIn
	text := n.Text()
	if utf8.RuneCountInString(text) <= cfg.MinLength {
		return false
	}
	if cfg.Separators != "" && strings.ContainsAny(text, cfg.Separators) {
		return false
	}
	words := article.CountWords(text)
	if words == 0 {
		return false
	}
	return float64(n.LinkCount())/float64(words) <= cfg.MaxLinkRatio
}

// extract returns units of a single span node followed by images nested in
// it. Nested images are not checked against processed set.
func (s *Segmenter) extract(ctx context.Context, n *article.Node) []content.Unit {
	if s.isProcessed(n) {
		return nil
	}
	s.markProcessed(n)

	var units []content.Unit
	switch n.Kind {
	case article.KindParagraph:
		units = appendText(units, n.Text(), content.Text)
	case article.KindListItem:
		units = appendText(units, n.Text(), content.Bullet)
	case article.KindList:
		for _, li := range n.Children() {
			if li.Kind == article.KindListItem {
				units = appendText(units, li.Text(), content.Bullet)
			}
		}
	case article.KindTable:
		units = s.table(n, units)
	case article.KindImage:
		if u, ok := s.image(ctx, n.Source()); ok {
			units = append(units, u)
		}
		return units
	}

	for _, ref := range n.Images() {
		if u, ok := s.image(ctx, ref); ok {
			units = append(units, u)
		}
	}
	return units
}

// table returns one unit per paragraph or list item found in cells. Elements
// nested in already taken one are skipped.
func (s *Segmenter) table(t *article.Node, units []content.Unit) []content.Unit {
	var taken []*article.Node
	for _, e := range t.Descendants(func(e *article.Node) bool {
		return e.Kind == article.KindParagraph || e.Kind == article.KindListItem
	}) {
		if slices.ContainsFunc(taken, func(p *article.Node) bool { return p.Contains(func(d *article.Node) bool { return d.ID == e.ID }) }) {
			continue
		}
		taken = append(taken, e)
		if e.Kind == article.KindListItem {
			units = appendText(units, e.Text(), content.Bullet)
		} else {
			units = appendText(units, e.Text(), content.Text)
		}
	}
	return units
}

func (s *Segmenter) image(ctx context.Context, ref string) (content.Unit, bool) {
	if ref == "" {
		return content.Unit{}, false
	}
	p, err := s.images.Resolve(ctx, ref)
	if err != nil {
		s.log.Warn("Image dropped", zap.Error(err))
		return content.Unit{}, false
	}
	return content.Image(p), true
}

func appendText(units []content.Unit, text string, mk func(string) content.Unit) []content.Unit {
	if text = strings.TrimSpace(text); text == "" {
		return units
	}
	return append(units, mk(text))
}
