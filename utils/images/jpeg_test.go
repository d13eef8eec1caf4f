package images

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"testing"
)

func TestEnsureJFIFAPP0_AddsMarker(t *testing.T) {
	// Minimal JPEG without APP0
	data := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04}

	out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 300, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected marker to be added")
	}
	if len(out) != len(data)+18 {
		t.Fatalf("unexpected output length %d", len(out))
	}
	if out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatal("expected SOI marker preserved")
	}
	if !bytes.Equal(out[2:4], []byte{0xFF, 0xE0}) {
		t.Fatal("expected JFIF APP0 marker at position 2-3")
	}
	if !bytes.Equal(out[len(out)-4:], data[2:]) {
		t.Fatal("expected original segments to follow")
	}
}

func TestEnsureJFIFAPP0_AlreadyPresent(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 300, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Fatal("expected no marker addition")
	}
	if !bytes.Equal(out, data) {
		t.Fatal("expected same bytes")
	}
}

func TestEnsureJFIFAPP0_Errors(t *testing.T) {
	for _, data := range [][]byte{{0xFF}, {0x89, 0x50, 0x4E, 0x47, 0x0D}} {
		if _, _, err := EnsureJFIFAPP0(data, DpiNoUnits, 1, 1); err == nil {
			t.Errorf("EnsureJFIFAPP0(% x) expected error", data)
		}
	}
}

func TestEncodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))

	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, 90, 144); err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	data := buf.Bytes()
	if !bytes.Equal(data[2:4], []byte{0xFF, 0xE0}) {
		t.Fatal("expected JFIF APP0 segment")
	}
	// density follows length, identifier and version
	if unit := data[13]; unit != byte(DpiPxPerInch) {
		t.Errorf("density unit = %d", unit)
	}
	if x := binary.BigEndian.Uint16(data[14:16]); x != 144 {
		t.Errorf("x density = %d, want 144", x)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Errorf("decoded size %dx%d", cfg.Width, cfg.Height)
	}
}
