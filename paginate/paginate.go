// Package paginate turns sections into cards, splitting sections whose
// estimated height would overflow the card.
package paginate

import (
	"go.uber.org/zap"

	"cardgen/config"
	"cardgen/content"
	"cardgen/layout"
)

// Policy holds pagination limits. It is built once from configuration and
// never changed.
type Policy struct {
	MaxTextUnits       int
	TitleAllowance     int
	ImageAllowance     int
	Threshold          int
	MinSplitTextUnits  int
	SplitTextUnits     int
	ContinuationUnits  int
	LeadingUnits       int
	MaxUnits           int
	TruncateLength     int
	Ellipsis           string
	ContinuationSuffix string

	Estimator layout.Estimator
}

func NewPolicy(cfg *config.PaginationConfig, m layout.Metrics) Policy {
	return Policy{
		MaxTextUnits:       cfg.MaxTextUnits,
		TitleAllowance:     cfg.TitleAllowance,
		ImageAllowance:     cfg.ImageAllowance,
		Threshold:          cfg.OverflowThreshold,
		MinSplitTextUnits:  cfg.MinSplitTextUnits,
		SplitTextUnits:     cfg.SplitTextUnits,
		ContinuationUnits:  cfg.ContinuationUnits,
		LeadingUnits:       cfg.LeadingUnits,
		MaxUnits:           cfg.MaxUnits,
		TruncateLength:     cfg.TruncateLength,
		Ellipsis:           cfg.Ellipsis,
		ContinuationSuffix: cfg.ContinuationSuffix,
		Estimator:          m.Estimator(cfg.CharsPerLine),
	}
}

// Paginator applies Policy to sections.
type Paginator struct {
	policy Policy
	log    *zap.Logger
}

func New(policy Policy, log *zap.Logger) *Paginator {
	return &Paginator{policy: policy, log: log.Named("paginate")}
}

// Estimate returns approximate height of title, text units preceding first
// image and the image itself.
func (p Policy) Estimate(units []content.Unit, firstImage int) int {
	lengths := make([]int, 0, firstImage)
	for _, u := range units[:firstImage] {
		if u.IsText() {
			lengths = append(lengths, u.Len())
		}
	}
	return p.TitleAllowance + p.Estimator.TextHeight(lengths) + p.ImageAllowance
}

func firstImage(units []content.Unit) int {
	for i, u := range units {
		if u.IsImage() {
			return i
		}
	}
	return -1
}

func textUnits(units []content.Unit) []content.Unit {
	out := make([]content.Unit, 0, len(units))
	for _, u := range units {
		if u.IsText() {
			out = append(out, u)
		}
	}
	return out
}

func head(units []content.Unit, n int) []content.Unit {
	n = min(max(n, 0), len(units))
	return append([]content.Unit(nil), units[:n]...)
}

// Paginate returns one card, or two when section with image is estimated to
// overflow: text before the image and continuation card starting with it.
func (pg *Paginator) Paginate(s content.Section) []content.Card {
	p := &pg.policy

	pos := firstImage(s.Units)
	if pos < 0 {
		return []content.Card{{Title: s.Title, Units: head(s.Units, p.MaxTextUnits)}}
	}

	before := textUnits(s.Units[:pos])
	estimate := p.Estimate(s.Units, pos)
	if estimate > p.Threshold && len(before) >= p.MinSplitTextUnits {
		pg.log.Debug("Splitting section",
			zap.String("title", s.Title), zap.Int("estimate", estimate), zap.Int("threshold", p.Threshold))
		return []content.Card{
			{Title: s.Title, Units: head(before, p.SplitTextUnits)},
			{Title: s.Title + p.ContinuationSuffix, Units: head(s.Units[pos:], 1+p.ContinuationUnits), Continuation: true},
		}
	}

	var units []content.Unit
	if pos > p.LeadingUnits {
		units = append(head(s.Units, p.LeadingUnits), s.Units[pos])
	} else {
		units = head(s.Units, min(pos+p.LeadingUnits, p.MaxUnits))
	}
	for i, u := range units {
		units[i] = u.Truncate(p.TruncateLength, p.Ellipsis)
	}
	return []content.Card{{Title: s.Title, Units: units}}
}

// All paginates every section keeping order.
func (pg *Paginator) All(sections []content.Section) []content.Card {
	cards := make([]content.Card, 0, len(sections))
	for _, s := range sections {
		cards = append(cards, pg.Paginate(s)...)
	}
	return cards
}
