package render

import (
	"fmt"
	"os"
	"unicode"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"cardgen/config"
	"cardgen/layout"
)

// Face is font face of particular size which can also report characters it
// has no glyphs for.
type Face struct {
	font.Face
	f   *opentype.Font
	buf sfnt.Buffer
}

func newFace(f *opentype.Font, size float64) (*Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &Face{Face: face, f: f}, nil
}

// Measure implements layout.Measurer.
func (fc *Face) Measure(text string) (int, error) {
	if fc == nil || fc.Face == nil {
		return 0, layout.ErrNoFace
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if idx, err := fc.f.GlyphIndex(&fc.buf, r); err != nil || idx == 0 {
			return 0, fmt.Errorf("%w: %q", layout.ErrMissingGlyph, r)
		}
	}
	return font.MeasureString(fc.Face, text).Ceil(), nil
}

// Height returns line height of the face (ascent plus descent).
func (fc *Face) Height() int {
	m := fc.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func (fc *Face) Ascent() int {
	return fc.Metrics().Ascent.Ceil()
}

// Fonts holds faces used on cards.
type Fonts struct {
	Title *Face
	Body  *Face
	Label *Face
	// path of the font file or "gofont"
	Source string
}

// parseFont accepts single font files and collections (first font is used).
func parseFont(data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}
	c, cerr := opentype.ParseCollection(data)
	if cerr != nil {
		return nil, err
	}
	return c.Font(0)
}

// LoadFonts uses first usable font from configured paths for all faces.
// When none could be loaded built-in Go fonts are used: they have no CJK
// glyphs so measuring such text falls back to average character width.
func LoadFonts(cfg *config.FontsConfig, log *zap.Logger) (*Fonts, error) {
	for _, p := range cfg.Paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Debug("Font not available", zap.String("path", p), zap.Error(err))
			continue
		}
		f, err := parseFont(data)
		if err != nil {
			log.Warn("Unable to parse font", zap.String("path", p), zap.Error(err))
			continue
		}
		fonts, err := newFonts(cfg, f, f, p)
		if err != nil {
			log.Warn("Unable to create font faces", zap.String("path", p), zap.Error(err))
			continue
		}
		log.Debug("Using font", zap.String("path", p))
		return fonts, nil
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("unable to parse built-in font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("unable to parse built-in font: %w", err)
	}
	log.Warn("No configured font found, using built-in Go fonts", zap.Strings("paths", cfg.Paths))
	return newFonts(cfg, bold, regular, "gofont")
}

func newFonts(cfg *config.FontsConfig, title, body *opentype.Font, source string) (*Fonts, error) {
	var (
		fonts = &Fonts{Source: source}
		err   error
	)
	if fonts.Title, err = newFace(title, cfg.TitleSize); err != nil {
		return nil, err
	}
	if fonts.Body, err = newFace(body, cfg.BodySize); err != nil {
		return nil, err
	}
	if fonts.Label, err = newFace(body, cfg.LabelSize); err != nil {
		return nil, err
	}
	return fonts, nil
}

func (f *Fonts) Close() error {
	if f == nil {
		return nil
	}
	var err error
	for _, fc := range []*Face{f.Title, f.Body, f.Label} {
		if fc != nil {
			err = multierr.Append(err, fc.Close())
		}
	}
	return err
}
