package scrubber

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// stripPNG copies the chunk stream, dropping the ancillary chunks that carry
// text, EXIF payloads, or timestamps. CRCs travel with their chunks, so kept
// chunks stay valid without recomputation.
func stripPNG(r io.Reader, w io.Writer, preserveICC bool) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return err
	}
	if !bytes.Equal(sig, pngSignature) {
		return fmt.Errorf("invalid PNG signature")
	}
	if _, err := bw.Write(sig); err != nil {
		return err
	}

	for {
		header := make([]byte, 8) // length + type
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(header[:4])
		chunkName := string(header[4:])
		// payload + CRC
		body := int64(length) + 4

		if dropPNGChunk(chunkName, preserveICC) {
			if _, err := io.CopyN(io.Discard, br, body); err != nil {
				return err
			}
		} else {
			if _, err := bw.Write(header); err != nil {
				return err
			}
			if _, err := io.CopyN(bw, br, body); err != nil {
				return err
			}
		}

		if chunkName == "IEND" {
			break
		}
	}

	return bw.Flush()
}

func dropPNGChunk(chunkName string, preserveICC bool) bool {
	switch chunkName {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	case "iCCP":
		return !preserveICC
	default:
		return false
	}
}
