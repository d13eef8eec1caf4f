package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// HexColor is "#rrggbb" (or "#rgb") color notation used in card schemes.
type HexColor string

// Parse converts color to opaque RGBA.
func (h HexColor) Parse() (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(string(h)), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color notation %q", string(h))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color notation %q: %w", string(h), err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// RGBA is Parse for values which passed validation already. Invalid values
// become opaque black.
func (h HexColor) RGBA() color.RGBA {
	c, err := h.Parse()
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}

// Scheme returns named color scheme or the first one when name is empty or
// unknown. Second value reports if requested name was found.
func (conf *CardConfig) Scheme(name string) (SchemeConfig, bool) {
	for _, s := range conf.Schemes {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return conf.Schemes[0], len(name) == 0
}
