package scrubber

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WebP is a RIFF container. Metadata sits in dedicated EXIF, XMP, and ICCP
// chunks; the VP8X chunk advertises their presence through feature bits,
// which must be cleared when the chunks go away.
const (
	vp8xICCBit  = 0x20
	vp8xEXIFBit = 0x08
	vp8xXMPBit  = 0x04
)

func stripWebP(data []byte, w io.Writer, preserveICC bool) error {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return fmt.Errorf("invalid WebP header")
	}

	// Chunks are rebuilt into a fresh buffer so the RIFF size can be fixed
	// up after drops.
	body := make([]byte, 0, len(data))
	body = append(body, "WEBP"...)

	off := 12
	for off+8 <= len(data) {
		fourCC := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		end := off + 8 + size
		if end > len(data) {
			return fmt.Errorf("truncated WebP chunk %q", fourCC)
		}
		padded := end
		if size%2 == 1 {
			padded++ // odd-sized chunks carry a pad byte
		}

		switch fourCC {
		case "EXIF", "XMP ":
			// dropped
		case "ICCP":
			if preserveICC {
				body = append(body, data[off:min(padded, len(data))]...)
			}
		case "VP8X":
			chunk := make([]byte, padded-off)
			copy(chunk, data[off:min(padded, len(data))])
			if size >= 1 {
				chunk[8] &^= vp8xEXIFBit | vp8xXMPBit
				if !preserveICC {
					chunk[8] &^= vp8xICCBit
				}
			}
			body = append(body, chunk...)
		default:
			body = append(body, data[off:min(padded, len(data))]...)
		}

		off = padded
	}

	header := make([]byte, 8)
	copy(header, "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(len(body)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
