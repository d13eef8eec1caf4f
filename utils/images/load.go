// Package images decodes images referenced by cards and encodes rendered
// cards.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"

	// imaging registers jpeg, png, gif, bmp and tiff
	_ "golang.org/x/image/webp"
)

var ErrUnknownFormat = errors.New("unknown image format")

// IsSVG reports if data looks like SVG document.
func IsSVG(data []byte) bool {
	return mimetype.Detect(data).Is("image/svg+xml")
}

// Decode reads image file. Raster images are oriented according to EXIF
// data, SVG is rasterized at its intrinsic size over bg.
func Decode(path string, bg color.Color) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, bg)
}

func DecodeBytes(data []byte, bg color.Color) (image.Image, error) {
	switch {
	case filetype.IsImage(data):
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", kind(data), err)
		}
		return img, nil
	case IsSVG(data):
		img, err := RasterizeSVG(data, 0, 0, bg)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, nil
	}
	return nil, ErrUnknownFormat
}

// Dimensions returns natural size of image without fully decoding it.
func Dimensions(path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	if IsSVG(data) {
		img, err := RasterizeSVG(data, 0, 0, nil)
		if err != nil {
			return 0, 0, err
		}
		return img.Bounds().Dx(), img.Bounds().Dy(), nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}
	return cfg.Width, cfg.Height, nil
}

func kind(data []byte) string {
	if k, err := filetype.Match(data); err == nil && k != filetype.Unknown {
		return k.MIME.Value
	}
	return "image"
}
