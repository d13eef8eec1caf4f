package common

import "testing"

func TestParseImageFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ImageFormat
		wantErr bool
	}{
		{"jpeg", ImageFormatJpeg, false},
		{"JPG", ImageFormatJpeg, false},
		{" png ", ImageFormatPng, false},
		{"gif", ImageFormat(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseImageFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseImageFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseImageFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageFormat_Ext(t *testing.T) {
	if ext := ImageFormatJpeg.Ext(); ext != "jpg" {
		t.Errorf("jpeg Ext() = %q, want jpg", ext)
	}
	if ext := ImageFormatPng.Ext(); ext != "png" {
		t.Errorf("png Ext() = %q, want png", ext)
	}
}

func TestImageFormat_Text(t *testing.T) {
	var f ImageFormat
	if err := f.UnmarshalText([]byte("png")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	data, err := f.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(data) != "png" {
		t.Errorf("MarshalText() = %q, want png", data)
	}
	if err := f.UnmarshalText([]byte("tiff")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
