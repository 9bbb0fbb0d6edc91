package scrubber

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// JPEG metadata lives in APPn and COM segments between SOI and SOS. The
// walker copies the stream segment by segment and drops the ones whose
// payload identifies privacy metadata; entropy-coded data after SOS is
// copied verbatim.

var (
	exifPayload      = []byte("Exif\x00\x00")
	xmpPayload       = []byte("http://ns.adobe.com/xap/1.0/\x00")
	photoshopPayload = []byte("Photoshop 3.0\x00")
	iccPayload       = []byte("ICC_PROFILE\x00")
)

const (
	markerSOS   = 0xda
	markerEOI   = 0xd9
	markerTEM   = 0x01
	markerAPP1  = 0xe1
	markerAPP2  = 0xe2
	markerAPP13 = 0xed
	markerCOM   = 0xfe
)

func stripJPEG(r io.Reader, w io.Writer, preserveICC bool) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return fmt.Errorf("invalid JPEG SOI")
	}
	if _, err := bw.Write(soi); err != nil {
		return err
	}

	for {
		marker, err := nextMarker(br)
		if err != nil {
			return err
		}

		switch {
		case marker == markerEOI:
			if _, err := bw.Write([]byte{0xff, markerEOI}); err != nil {
				return err
			}
			return bw.Flush()

		case marker == markerSOS:
			// Everything from SOS onward is image data.
			if _, err := bw.Write([]byte{0xff, markerSOS}); err != nil {
				return err
			}
			if _, err := io.Copy(bw, br); err != nil {
				return err
			}
			return bw.Flush()

		case marker == markerTEM || (marker >= 0xd0 && marker <= 0xd7):
			// Standalone markers carry no length.
			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return err
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return fmt.Errorf("invalid JPEG segment length")
		}
		payload := make([]byte, segLen-2)
		if _, err := io.ReadFull(br, payload); err != nil {
			return err
		}

		if dropJPEGSegment(marker, payload, preserveICC) {
			continue
		}

		if _, err := bw.Write([]byte{0xff, marker}); err != nil {
			return err
		}
		if _, err := bw.Write(lenBuf); err != nil {
			return err
		}
		if _, err := bw.Write(payload); err != nil {
			return err
		}
	}
}

// nextMarker scans past fill bytes to the next marker byte.
func nextMarker(br *bufio.Reader) (byte, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	for b != 0xff {
		if b, err = br.ReadByte(); err != nil {
			return 0, err
		}
	}
	marker, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	for marker == 0xff {
		if marker, err = br.ReadByte(); err != nil {
			return 0, err
		}
	}
	return marker, nil
}

func dropJPEGSegment(marker byte, payload []byte, preserveICC bool) bool {
	switch marker {
	case markerAPP1:
		return hasPrefix(payload, exifPayload) || hasPrefix(payload, xmpPayload)
	case markerAPP2:
		return !preserveICC && hasPrefix(payload, iccPayload)
	case markerAPP13:
		return hasPrefix(payload, photoshopPayload)
	case markerCOM:
		return true
	}
	return false
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
