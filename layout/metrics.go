package layout

import (
	"cardgen/config"
)

// Decoration geometry which is not configurable.
const (
	BadgeRadius      = 20
	BadgePadX        = 15
	BadgePadY        = 10
	BadgeRaise       = 10
	UnderlineGap     = 20
	UnderlineWidth   = 80
	UnderlineHeight  = 5
	UnderlineAdvance = 45
	BulletSize       = 8
	BulletOffsetX    = 5
	BulletOffsetY    = 12
	FooterRaise      = 35
	FooterRuleGap    = 10
	FooterRuleWidth  = 2
	FooterBlockW     = 15
	FooterBlockH     = 30
	ImageFramePad    = 8
)

// Metrics is card geometry computed once from configuration.
type Metrics struct {
	Size         int
	Padding      int
	ContentWidth int

	TitleTop        int
	TitleLineHeight int
	TitleMaxLines   int

	BodyLineHeight   int
	ParagraphSpacing int
	BulletIndent     int
	// text and images are not placed below this line
	BodyBottom int
	// top of the footer text line
	FooterTop int

	ImageFocusTextLimit int
	ImageFocusMaxHeight int
	ImageMixedHeight    int
}

func NewMetrics(cfg *config.CardConfig) Metrics {
	return Metrics{
		Size:                cfg.Size,
		Padding:             cfg.Padding,
		ContentWidth:        cfg.Size - 2*cfg.Padding,
		TitleTop:            cfg.Padding + cfg.HeaderOffset,
		TitleLineHeight:     int(cfg.Fonts.TitleSize * cfg.TitleLineSpacing),
		TitleMaxLines:       cfg.TitleMaxLines,
		BodyLineHeight:      int(cfg.Fonts.BodySize * cfg.LineSpacing),
		ParagraphSpacing:    cfg.ParagraphSpacing,
		BulletIndent:        cfg.BulletIndent,
		BodyBottom:          cfg.Size - cfg.Padding - cfg.FooterHeight,
		FooterTop:           cfg.Size - cfg.Padding - FooterRaise,
		ImageFocusTextLimit: cfg.ImageFocusTextLimit,
		ImageFocusMaxHeight: cfg.ImageFocusMaxHeight,
		ImageMixedHeight:    cfg.ImageMixedHeight,
	}
}

// ImageFocused reports if card with given number of images and characters of
// text should be laid out around its image.
func (m Metrics) ImageFocused(images, textLen int) bool {
	return images == 1 && textLen < m.ImageFocusTextLimit
}

// ImageBox returns bounding box for image placed at vertical position y.
// Image focused cards get all space down to the footer band (capped), mixed
// cards get a smaller fixed allowance.
func (m Metrics) ImageBox(y int, focused bool) (int, int) {
	avail := max(m.BodyBottom-y, 0)
	if focused {
		return m.ContentWidth, min(avail, m.ImageFocusMaxHeight)
	}
	return m.ContentWidth, min(avail, m.ImageMixedHeight)
}

// Estimator returns overflow estimator matching body text geometry.
func (m Metrics) Estimator(charsPerLine int) Estimator {
	return Estimator{CharsPerLine: charsPerLine, LineHeight: m.BodyLineHeight, UnitSpacing: m.ParagraphSpacing}
}
