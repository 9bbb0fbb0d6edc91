package scrubber

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"metawash/pkg/imgutil"
)

func TestScrubJPEG(t *testing.T) {
	src := buildJPEGWithExif(t)

	details, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !hasCategory(details, "Device Model") || !hasCategory(details, "Timestamp") {
		t.Fatalf("expected model and timestamp details, got: %#v", details)
	}

	res, err := Scrub(src, Options{})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if res.Kind != imgutil.KindJPEG {
		t.Fatalf("output kind = %s, want jpeg", res.Kind)
	}
	if !strings.Contains(res.Removed, "Device Model") {
		t.Fatalf("removed summary %q misses category", res.Removed)
	}
	if res.BytesSaved <= 0 {
		t.Fatalf("expected positive bytes saved, got %d", res.BytesSaved)
	}

	after, err := Scan(res.Data)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("metadata survived scrub: %#v", after)
	}
}

func TestScrubPNG(t *testing.T) {
	src := buildPNGWithMetadata(t)

	details, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !hasCategory(details, "Device Model") || !hasCategory(details, "Timestamp") {
		t.Fatalf("expected model and timestamp details, got: %#v", details)
	}

	res, err := Scrub(src, Options{})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if res.Kind != imgutil.KindPNG {
		t.Fatalf("output kind = %s, want png", res.Kind)
	}

	after, err := Scan(res.Data)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("metadata survived scrub: %#v", after)
	}
}

func TestScrubWebP(t *testing.T) {
	src := buildWebPWithExif(t)

	details, err := Scan(src)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !hasCategory(details, "Device Model") {
		t.Fatalf("expected model detail, got: %#v", details)
	}

	res, err := Scrub(src, Options{})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if res.Kind != imgutil.KindWEBP {
		t.Fatalf("output kind = %s, want webp", res.Kind)
	}
	if bytes.Contains(res.Data, []byte("EXIF")) {
		t.Fatal("EXIF chunk survived scrub")
	}

	// VP8X feature bits for EXIF/XMP must be cleared.
	idx := bytes.Index(res.Data, []byte("VP8X"))
	if idx < 0 {
		t.Fatal("VP8X chunk missing from output")
	}
	flags := res.Data[idx+8]
	if flags&(vp8xEXIFBit|vp8xXMPBit) != 0 {
		t.Fatalf("VP8X flags not cleared: %#x", flags)
	}

	// Declared RIFF size must match the rebuilt body.
	declared := binary.LittleEndian.Uint32(res.Data[4:8])
	if int(declared) != len(res.Data)-8 {
		t.Fatalf("RIFF size %d, want %d", declared, len(res.Data)-8)
	}
}

func TestScrubBMPPassthrough(t *testing.T) {
	src := buildBMP(t)

	res, err := Scrub(src, Options{})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if !bytes.Equal(res.Data, src) {
		t.Fatal("BMP bytes changed")
	}
	if res.Kind != imgutil.KindBMP {
		t.Fatalf("output kind = %s, want bmp", res.Kind)
	}
	if res.Removed != DefaultRemoved {
		t.Fatalf("removed = %q, want default", res.Removed)
	}
}

func TestScrubTIFFUnsupported(t *testing.T) {
	src := append([]byte{0x49, 0x49, 0x2a, 0x00}, make([]byte, 16)...)
	if _, err := Scrub(src, Options{}); err == nil {
		t.Fatal("expected TIFF to be rejected")
	}
}

func TestScrubGarbage(t *testing.T) {
	if _, err := Scrub([]byte("definitely not an image"), Options{}); err == nil {
		t.Fatal("expected error for non-image input")
	}
}

func TestScrubPreserveICC(t *testing.T) {
	src := buildPNGWithICC(t)

	res, err := Scrub(src, Options{PreserveICC: true})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if !bytes.Contains(res.Data, []byte("iCCP")) {
		t.Fatal("iCCP dropped despite PreserveICC")
	}

	res, err = Scrub(src, Options{})
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if bytes.Contains(res.Data, []byte("iCCP")) {
		t.Fatal("iCCP kept without PreserveICC")
	}
}

func hasCategory(details []Detail, category string) bool {
	for _, d := range details {
		if d.Category == category && len(d.Values) > 0 {
			return true
		}
	}
	return false
}

// --- fixtures ---

func buildJPEGWithExif(t *testing.T) []byte {
	t.Helper()

	exifSeg := append([]byte("Exif\x00\x00"), buildExifTIFF()...)

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})

	// APP0 JFIF keeps the output large enough to sniff.
	jfif := []byte("JFIF\x00\x01\x02\x00\x00\x01\x00\x01\x00\x00")
	buf.Write([]byte{0xff, 0xe0})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(jfif)+2))
	buf.Write(jfif)

	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(exifSeg)+2))
	buf.Write(exifSeg)

	buf.Write([]byte{0xff, 0xd9})
	return buf.Bytes()
}

// buildExifTIFF emits a little-endian TIFF blob with two IFD entries:
// Model ("TestCam") and DateTime.
func buildExifTIFF() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(20))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(46))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	tiff.Write([]byte("2024:01:02 03:04:05\x00"))
	return tiff.Bytes()
}

func buildPNGWithMetadata(t *testing.T) []byte {
	t.Helper()

	base := encodePNG(t)
	textChunk := buildPNGChunk("tEXt", []byte("Model\x00TestCam"))
	timeChunk := buildPNGChunk("tIME", []byte{0x07, 0xE8, 0x01, 0x02, 0x03, 0x04, 0x05})
	exifChunk := buildPNGChunk("eXIf", buildExifTIFF())

	return insertBeforeIEND(base, textChunk, timeChunk, exifChunk)
}

func buildPNGWithICC(t *testing.T) []byte {
	t.Helper()

	base := encodePNG(t)
	iccChunk := buildPNGChunk("iCCP", []byte("profile\x00\x00fakeicc"))
	return insertBeforeIEND(base, iccChunk)
}

func encodePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 12 || string(data[len(data)-8:len(data)-4]) != "IEND" {
		t.Fatal("unexpected png encoding")
	}
	return data
}

func insertBeforeIEND(data []byte, chunks ...[]byte) []byte {
	insertAt := len(data) - 12
	out := append([]byte{}, data[:insertAt]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return append(out, data[insertAt:]...)
}

func buildPNGChunk(chunkType string, data []byte) []byte {
	typeBytes := []byte(chunkType)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
	crc := crc32.ChecksumIEEE(append(typeBytes, data...))
	crcBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBuf, crc)

	chunk := make([]byte, 0, 12+len(data))
	chunk = append(chunk, lenBuf...)
	chunk = append(chunk, typeBytes...)
	chunk = append(chunk, data...)
	return append(chunk, crcBuf...)
}

func buildWebPWithExif(t *testing.T) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString("WEBP")

	writeChunk := func(fourCC string, payload []byte) {
		body.WriteString(fourCC)
		_ = binary.Write(&body, binary.LittleEndian, uint32(len(payload)))
		body.Write(payload)
		if len(payload)%2 == 1 {
			body.WriteByte(0)
		}
	}

	vp8x := []byte{vp8xEXIFBit, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	writeChunk("VP8X", vp8x)
	writeChunk("VP8 ", make([]byte, 20))
	writeChunk("EXIF", buildExifTIFF())

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func buildBMP(t *testing.T) []byte {
	t.Helper()

	bmp := make([]byte, 26)
	copy(bmp, "BM")
	binary.LittleEndian.PutUint32(bmp[2:], uint32(len(bmp)))
	return bmp
}
