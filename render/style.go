package render

import (
	"fmt"
	"image/color"

	"cardgen/config"
	"cardgen/layout"
)

var (
	white     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	watermark = color.RGBA{R: 150, G: 150, B: 150, A: 0xff}
)

// Scheme is parsed color scheme.
type Scheme struct {
	Name          string
	Background    color.RGBA
	Title         color.RGBA
	Body          color.RGBA
	Accent        color.RGBA
	TagBackground color.RGBA
}

func newScheme(sc config.SchemeConfig) (Scheme, error) {
	s := Scheme{Name: sc.Name}
	for _, c := range []struct {
		dst *color.RGBA
		src config.HexColor
	}{
		{&s.Background, sc.Background},
		{&s.Title, sc.Title},
		{&s.Body, sc.Body},
		{&s.Accent, sc.Accent},
		{&s.TagBackground, sc.TagBackground},
	} {
		v, err := c.src.Parse()
		if err != nil {
			return Scheme{}, fmt.Errorf("scheme %q: %w", sc.Name, err)
		}
		*c.dst = v
	}
	return s, nil
}

// Style is immutable card appearance built once from configuration.
type Style struct {
	Metrics      layout.Metrics
	Schemes      []Scheme
	Watermark    string
	AvgCharWidth int
	Output       config.OutputConfig
}

// NewStyle prepares style. When scheme is not empty every card uses that
// color scheme, otherwise schemes rotate with card index.
func NewStyle(cfg *config.CardConfig, scheme string) (Style, error) {
	st := Style{
		Metrics:      layout.NewMetrics(cfg),
		Watermark:    cfg.Watermark,
		AvgCharWidth: cfg.Fonts.AvgCharWidth,
		Output:       cfg.Output,
	}
	if scheme != "" {
		sc, ok := cfg.Scheme(scheme)
		if !ok {
			return Style{}, fmt.Errorf("unknown color scheme %q", scheme)
		}
		s, err := newScheme(sc)
		if err != nil {
			return Style{}, err
		}
		st.Schemes = []Scheme{s}
		return st, nil
	}
	for _, sc := range cfg.Schemes {
		s, err := newScheme(sc)
		if err != nil {
			return Style{}, err
		}
		st.Schemes = append(st.Schemes, s)
	}
	if len(st.Schemes) == 0 {
		return Style{}, fmt.Errorf("no color schemes configured")
	}
	return st, nil
}

// Scheme returns color scheme of card with given 0-based index.
func (st Style) Scheme(index int) Scheme {
	return st.Schemes[index%len(st.Schemes)]
}
