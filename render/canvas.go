package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type canvas struct {
	img *image.RGBA
	w   int
	h   int
}

func newCanvas(w, h int, bg color.Color) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &canvas{img: img, w: w, h: h}
}

// text draws single line with top left corner at (x, y).
func (c *canvas) text(face *Face, col color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent()),
	}
	d.DrawString(s)
}

func (c *canvas) rect(x0, y0, x1, y1 int, col color.Color) {
	draw.Draw(c.img, image.Rect(x0, y0, x1, y1), image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *canvas) filler(col color.Color) *rasterx.Filler {
	scanner := rasterx.NewScannerGV(c.w, c.h, c.img, c.img.Bounds())
	f := rasterx.NewFiller(c.w, c.h, scanner)
	f.SetColor(col)
	return f
}

func (c *canvas) roundRect(x0, y0, x1, y1, radius int, col color.Color) {
	f := c.filler(col)
	r := float64(radius)
	rasterx.AddRoundRect(float64(x0), float64(y0), float64(x1), float64(y1), r, r, 0, rasterx.RoundGap, f)
	f.Draw()
}

// dot draws filled circle inscribed into square with top left corner at (x, y).
func (c *canvas) dot(x, y, size int, col color.Color) {
	f := c.filler(col)
	r := float64(size) / 2
	rasterx.AddCircle(float64(x)+r, float64(y)+r, r, f)
	f.Draw()
}

func (c *canvas) paste(img image.Image, x, y int) {
	b := img.Bounds()
	draw.Draw(c.img, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
}
