// Package render draws cards.
package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"cardgen/common"
	"cardgen/content"
	"cardgen/layout"
	"cardgen/utils/images"
)

// smallest image box worth drawing
const minImageBox = 40

// Renderer draws cards. It keeps no state between cards except measurement
// counters.
type Renderer struct {
	style Style
	fonts *Fonts
	title *layout.Wrapper
	body  *layout.Wrapper
	log   *zap.Logger
}

func New(style Style, fonts *Fonts, log *zap.Logger) *Renderer {
	return &Renderer{
		style: style,
		fonts: fonts,
		title: layout.NewWrapper(fonts.Title, style.AvgCharWidth),
		body:  layout.NewWrapper(fonts.Body, style.AvgCharWidth),
		log:   log.Named("render"),
	}
}

// Scheme returns color scheme used for card with 0-based index.
func (r *Renderer) Scheme(index int) Scheme {
	return r.style.Scheme(index)
}

// Fallbacks returns number of text measurements which were estimated because
// font could not measure them.
func (r *Renderer) Fallbacks() int {
	return r.title.Fallbacks() + r.body.Fallbacks()
}

// Render draws card with 0-based index out of total cards. Images which
// could not be loaded are skipped.
func (r *Renderer) Render(card content.Card, index, total int) (image.Image, error) {
	if total <= 0 || index < 0 || index >= total {
		return nil, fmt.Errorf("card index %d out of range [0, %d)", index, total)
	}

	m := r.style.Metrics
	sc := r.style.Scheme(index)
	c := newCanvas(m.Size, m.Size, sc.Background)

	r.badge(c, sc, fmt.Sprintf("%d/%d", index+1, total))

	y := m.TitleTop
	lines := r.title.Wrap(card.Title, m.ContentWidth)
	if len(lines) > m.TitleMaxLines {
		lines = lines[:m.TitleMaxLines]
	}
	for _, ln := range lines {
		c.text(r.fonts.Title, sc.Title, m.Padding, y, ln)
		y += m.TitleLineHeight
	}

	y += layout.UnderlineGap
	c.rect(m.Padding, y, m.Padding+layout.UnderlineWidth, y+layout.UnderlineHeight, sc.Accent)
	y += layout.UnderlineAdvance

	focused := m.ImageFocused(card.Images(), card.TextLen())
	for _, u := range card.Units {
		if y >= m.BodyBottom {
			r.log.Debug("Card content clipped", zap.String("title", card.Title))
			break
		}
		if u.IsImage() {
			y = r.image(c, sc, u.Value(), y, focused)
			continue
		}
		y = r.paragraph(c, sc, u, y)
	}

	r.footer(c, sc)
	return c.img, nil
}

func (r *Renderer) badge(c *canvas, sc Scheme, text string) {
	m := r.style.Metrics
	label := r.fonts.Label
	w := r.body.Width(text)
	if tw, err := label.Measure(text); err == nil {
		w = tw
	}
	w += 2 * layout.BadgePadX
	h := label.Height() + 2*layout.BadgePadY
	x := m.Size - m.Padding - w
	y := m.Padding - layout.BadgeRaise
	c.roundRect(x, y, x+w, y+h, layout.BadgeRadius, sc.Accent)
	c.text(label, white, x+layout.BadgePadX, y+layout.BadgePadY, text)
}

func (r *Renderer) paragraph(c *canvas, sc Scheme, u content.Unit, y int) int {
	m := r.style.Metrics
	x, text := m.Padding, u.Value()
	if u.IsBullet() {
		c.dot(m.Padding+layout.BulletOffsetX, y+layout.BulletOffsetY, layout.BulletSize, sc.Accent)
		x += m.BulletIndent
		text = u.BulletText()
	}
	for _, ln := range r.body.Wrap(text, m.ContentWidth-m.BulletIndent) {
		if y >= m.BodyBottom {
			break
		}
		c.text(r.fonts.Body, sc.Body, x, y, ln)
		y += m.BodyLineHeight
	}
	return y + m.ParagraphSpacing
}

// image draws image centered in its box on a tag colored frame and returns
// position below it.
func (r *Renderer) image(c *canvas, sc Scheme, path string, y int, focused bool) int {
	m := r.style.Metrics
	boxW, boxH := m.ImageBox(y, focused)
	boxW -= 2 * layout.ImageFramePad
	boxH -= 2 * layout.ImageFramePad
	if boxH < minImageBox {
		r.log.Debug("No room left for image", zap.String("file", path), zap.Int("height", boxH))
		return y
	}

	src, err := images.Decode(path, sc.TagBackground)
	if err != nil {
		r.log.Warn("Unable to load image, skipping", zap.String("file", path), zap.Error(err))
		return y
	}
	b := src.Bounds()
	w, h := layout.FitInt(b.Dx(), b.Dy(), boxW, boxH)
	if w != b.Dx() || h != b.Dy() {
		src = imaging.Resize(src, w, h, imaging.Lanczos)
	}

	x := m.Padding + (m.ContentWidth-w)/2
	pad := layout.ImageFramePad
	c.roundRect(x-pad, y, x+w+pad, y+h+2*pad, pad, sc.TagBackground)
	c.paste(src, x, y+pad)
	return y + h + 2*pad + m.ParagraphSpacing
}

func (r *Renderer) footer(c *canvas, sc Scheme) {
	m := r.style.Metrics
	bottom := m.FooterTop

	c.rect(m.Padding, bottom-layout.FooterRuleGap, m.Size-m.Padding, bottom-layout.FooterRuleGap+layout.FooterRuleWidth, sc.Accent)
	if r.style.Watermark != "" {
		c.text(r.fonts.Label, watermark, m.Padding, bottom+5, r.style.Watermark)
	}
	x := m.Size - m.Padding - layout.FooterBlockW
	c.rect(x, bottom, x+layout.FooterBlockW, bottom+layout.FooterBlockH, sc.Accent)
}

// Encode writes card image in configured format.
func (r *Renderer) Encode(w io.Writer, img image.Image) error {
	out := r.style.Output
	switch out.Format {
	case common.ImageFormatPng:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return images.EncodeJPEG(w, img, out.JPEGQuality, out.DPI)
	}
}

// Save encodes card image into file at path.
func (r *Renderer) Save(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf, img); err != nil {
		return fmt.Errorf("unable to encode card: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to save card: %w", err)
	}
	return nil
}
