// Package common keeps small enumerations shared between configuration and
// processing packages so neither has to import the other.
package common

import (
	"fmt"
	"strings"
)

// Encoding of produced card images.
type ImageFormat int

const (
	ImageFormatJpeg ImageFormat = iota
	ImageFormatPng
)

var imageFormatNames = []string{"jpeg", "png"}

func (f ImageFormat) String() string {
	if f < 0 || int(f) >= len(imageFormatNames) {
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
	return imageFormatNames[f]
}

// Ext returns file extension (without dot) used for card files.
func (f ImageFormat) Ext() string {
	switch f {
	case ImageFormatJpeg:
		return "jpg"
	case ImageFormatPng:
		return "png"
	default:
		// this should never happen
		panic("unsupported image format requested")
	}
}

// ImageFormatNames returns list of possible names.
func ImageFormatNames() []string {
	out := make([]string, len(imageFormatNames))
	copy(out, imageFormatNames)
	return out
}

// ParseImageFormat attempts to convert a string to an ImageFormat.
func ParseImageFormat(name string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg":
		return ImageFormatJpeg, nil
	case "png":
		return ImageFormatPng, nil
	}
	return ImageFormat(0), fmt.Errorf("%s is not a valid ImageFormat, try [%s]", name, strings.Join(imageFormatNames, ", "))
}

// MarshalText implements the text marshaller method.
func (f ImageFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (f *ImageFormat) UnmarshalText(text []byte) error {
	v, err := ParseImageFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
