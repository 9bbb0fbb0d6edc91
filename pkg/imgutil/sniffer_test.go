package imgutil

import (
	"bytes"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0, 0}, KindJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d}, KindPNG},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBP"), KindWEBP},
		{"bmp", []byte("BM\x36\x00\x00\x00\x00\x00\x00\x00\x36\x00"), KindBMP},
		{"tiff le", []byte{0x49, 0x49, 0x2a, 0x00, 8, 0, 0, 0, 0, 0, 0, 0}, KindTIFF},
		{"tiff be", []byte{0x4d, 0x4d, 0x00, 0x2a, 0, 0, 0, 8, 0, 0, 0, 0}, KindTIFF},
		{"riff but not webp", []byte("RIFF\x24\x00\x00\x00WAVE"), KindUnknown},
		{"garbage", []byte("hello world!"), KindUnknown},
	}

	for _, tc := range cases {
		got, err := DetectHeader(tc.header)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff, 0xd8}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffReader(t *testing.T) {
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)
	kind, err := SniffReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if kind != KindPNG {
		t.Fatalf("got %s, want png", kind)
	}
}

func TestMediaTypeRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindJPEG, KindPNG, KindWEBP, KindBMP, KindTIFF} {
		if got := FromMediaType(kind.MediaType()); got != kind {
			t.Errorf("round trip %s: got %s", kind, got)
		}
	}

	if got := FromMediaType("image/png; charset=binary"); got != KindPNG {
		t.Errorf("parameters not ignored: got %s", got)
	}
	if got := FromMediaType("text/plain"); got != KindUnknown {
		t.Errorf("text/plain: got %s, want unknown", got)
	}
}
