package imgutil

import (
	"errors"
	"io"
	"strings"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindWEBP
	KindBMP
	KindTIFF
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindWEBP:
		return "webp"
	case KindBMP:
		return "bmp"
	case KindTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// MediaType returns the MIME type for the kind.
func (k Kind) MediaType() string {
	switch k {
	case KindJPEG:
		return "image/jpeg"
	case KindPNG:
		return "image/png"
	case KindWEBP:
		return "image/webp"
	case KindBMP:
		return "image/bmp"
	case KindTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the canonical file extension (without the dot) for the kind,
// or "" when the kind is unknown.
func (k Kind) Ext() string {
	switch k {
	case KindJPEG:
		return "jpg"
	case KindPNG:
		return "png"
	case KindWEBP:
		return "webp"
	case KindBMP:
		return "bmp"
	case KindTIFF:
		return "tiff"
	default:
		return ""
	}
}

// FromMediaType maps a MIME type (parameters ignored) back to a Kind.
func FromMediaType(mediaType string) Kind {
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/jpg":
		return KindJPEG
	case "image/png":
		return KindPNG
	case "image/webp":
		return KindWEBP
	case "image/bmp", "image/x-ms-bmp":
		return KindBMP
	case "image/tiff":
		return KindTIFF
	default:
		return KindUnknown
	}
}

// HeaderLen is the number of leading bytes DetectHeader needs. WebP carries
// its signature at offset 8, after the RIFF tag and chunk size.
const HeaderLen = 12

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	bmpSig    = []byte{0x42, 0x4d}
	riffSig   = []byte{0x52, 0x49, 0x46, 0x46}
	webpSig   = []byte{0x57, 0x45, 0x42, 0x50}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
)

// DetectHeader inspects the first HeaderLen bytes for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < HeaderLen {
		return KindUnknown, errors.New("header too short")
	}

	if hasPrefix(header, jpegSig) {
		return KindJPEG, nil
	}
	if hasPrefix(header, pngSig) {
		return KindPNG, nil
	}
	if hasPrefix(header, riffSig) && hasPrefix(header[8:], webpSig) {
		return KindWEBP, nil
	}
	if hasPrefix(header, bmpSig) {
		return KindBMP, nil
	}
	if hasPrefix(header, tiffSigLE) || hasPrefix(header, tiffSigBE) {
		return KindTIFF, nil
	}

	return KindUnknown, nil
}

// SniffBytes determines the image type of an in-memory file.
func SniffBytes(data []byte) (Kind, error) {
	if len(data) < HeaderLen {
		return KindUnknown, errors.New("header too short")
	}
	return DetectHeader(data[:HeaderLen])
}

// SniffReader reads the first HeaderLen bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return KindUnknown, err
	}

	return DetectHeader(header)
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
