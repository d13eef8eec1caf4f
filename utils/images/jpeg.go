package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

// EnsureJFIFAPP0 inserts JFIF APP0 marker segment with density information
// if it is missing. Standard library encoder never writes one and some image
// viewers assume 72 dpi without it.
func EnsureJFIFAPP0(jpegData []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}

	// Must start with SOI marker.
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}

	marker := []byte{0xFF, 0xE0}                             // APP0 segment marker
	jfif := []byte{0x4A, 0x46, 0x49, 0x46, 0x00, 0x01, 0x02} // jfif + version

	if jpegData[2] == marker[0] && jpegData[3] == marker[1] {
		return jpegData, false, nil
	}

	buf := new(bytes.Buffer)
	buf.Grow(len(jpegData) + 18)
	buf.Write(jpegData[:2])
	buf.Write(marker)
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10)) // length
	buf.Write(jfif)
	_ = binary.Write(buf, binary.BigEndian, uint8(dpit))
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}

// EncodeJPEG writes img as JPEG with given quality. When dpi is positive
// density is recorded in JFIF header.
func EncodeJPEG(w io.Writer, img image.Image, quality, dpi int) error {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return err
	}
	data := buf.Bytes()
	if dpi > 0 {
		out, _, err := EnsureJFIFAPP0(data, DpiPxPerInch, int16(dpi), int16(dpi))
		if err != nil {
			return err
		}
		data = out
	}
	_, err := w.Write(data)
	return err
}
