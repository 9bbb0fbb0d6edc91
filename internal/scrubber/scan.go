package scrubber

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"metawash/pkg/imgutil"
)

// Detail is one category of privacy metadata found in a file, with the
// raw "Tag=Value" entries backing it.
type Detail struct {
	Category string
	Values   []string
}

// Scan reports the privacy metadata present in an image without modifying
// it. Files with nothing notable return an empty slice.
func Scan(data []byte) ([]Detail, error) {
	kind, err := imgutil.SniffBytes(data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case imgutil.KindJPEG, imgutil.KindTIFF:
		return scanExif(data)
	case imgutil.KindPNG:
		return scanPNG(data)
	case imgutil.KindWEBP:
		return scanWebP(data)
	default:
		return nil, nil
	}
}

// facts accumulates tag entries per category before ordering.
type facts struct {
	gps       []string
	device    []string
	timestamp []string
	serial    []string
}

func (f *facts) details() []Detail {
	var out []Detail
	if len(f.gps) > 0 {
		out = append(out, Detail{Category: "GPS", Values: f.gps})
	}
	if len(f.device) > 0 {
		out = append(out, Detail{Category: "Device Model", Values: f.device})
	}
	if len(f.timestamp) > 0 {
		out = append(out, Detail{Category: "Timestamp", Values: f.timestamp})
	}
	if len(f.serial) > 0 {
		out = append(out, Detail{Category: "Serial Number", Values: f.serial})
	}
	return out
}

func scanExif(data []byte) ([]Detail, error) {
	// Locate the TIFF blob first; the flat walk expects to start right at
	// its header, not at the container's.
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if isNoExif(err) {
			return nil, nil
		}
		return nil, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearch(raw, nil, true)
	if err != nil {
		if isNoExif(err) {
			return nil, nil
		}
		return nil, err
	}

	f := &facts{}
	for _, tag := range tags {
		name := tag.TagName
		entry := name + "=" + tag.Formatted

		switch {
		case strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS"):
			f.gps = append(f.gps, entry)
		case name == "Make" || name == "Model" || name == "CameraModelName" || name == "Software":
			f.device = append(f.device, entry)
		case name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime":
			f.timestamp = append(f.timestamp, entry)
		case strings.Contains(strings.ToLower(name), "serial"):
			f.serial = append(f.serial, entry)
		}
	}

	return f.details(), nil
}

func scanPNG(data []byte) ([]Detail, error) {
	br := bufio.NewReader(bytes.NewReader(data))

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, errors.New("invalid PNG signature")
	}

	f := &facts{}
	for {
		header := make([]byte, 8)
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				return f.details(), nil
			}
			return nil, err
		}
		length := binary.BigEndian.Uint32(header[:4])
		chunkName := string(header[4:])

		switch chunkName {
		case "tEXt", "zTXt", "iTXt":
			payload := make([]byte, length)
			if _, err := io.ReadFull(br, payload); err != nil {
				return nil, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return nil, err
			}
			recordPNGTextKey(f, payload)
		case "eXIf":
			payload := make([]byte, length)
			if _, err := io.ReadFull(br, payload); err != nil {
				return nil, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return nil, err
			}
			// eXIf carries a raw TIFF blob; fold its tags in.
			if embedded, err := scanExif(wrapExifBlob(payload)); err == nil {
				mergeFacts(f, embedded)
			}
		case "tIME":
			f.timestamp = append(f.timestamp, "tIME=last modified")
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return nil, err
			}
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return nil, err
			}
		}

		if chunkName == "IEND" {
			return f.details(), nil
		}
	}
}

func scanWebP(data []byte) ([]Detail, error) {
	if len(data) < 12 {
		return nil, nil
	}

	f := &facts{}
	off := 12
	for off+8 <= len(data) {
		fourCC := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		end := off + 8 + size
		if end > len(data) {
			break
		}

		if fourCC == "EXIF" {
			if embedded, err := scanExif(wrapExifBlob(data[off+8 : end])); err == nil {
				mergeFacts(f, embedded)
			}
		}

		off = end
		if size%2 == 1 {
			off++
		}
	}

	return f.details(), nil
}

func recordPNGTextKey(f *facts, payload []byte) {
	idx := bytes.IndexByte(payload, 0)
	if idx <= 0 {
		return
	}
	key := string(payload[:idx])
	value := ""
	if idx+1 < len(payload) {
		value = string(payload[idx+1:])
	}
	entry := key + "=" + value

	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "gps") || strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude"):
		f.gps = append(f.gps, entry)
	case strings.Contains(lower, "model") || strings.Contains(lower, "make") || strings.Contains(lower, "software"):
		f.device = append(f.device, entry)
	case strings.Contains(lower, "date") || strings.Contains(lower, "time"):
		f.timestamp = append(f.timestamp, entry)
	}
}

// wrapExifBlob normalizes an embedded EXIF payload to a bare TIFF blob,
// which the universal search reads directly.
func wrapExifBlob(blob []byte) []byte {
	if bytes.HasPrefix(blob, []byte("Exif\x00\x00")) {
		blob = blob[6:]
	}
	return blob
}

func mergeFacts(f *facts, details []Detail) {
	for _, d := range details {
		switch d.Category {
		case "GPS":
			f.gps = append(f.gps, d.Values...)
		case "Device Model":
			f.device = append(f.device, d.Values...)
		case "Timestamp":
			f.timestamp = append(f.timestamp, d.Values...)
		case "Serial Number":
			f.serial = append(f.serial, d.Values...)
		}
	}
}

func isNoExif(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no exif")
}
