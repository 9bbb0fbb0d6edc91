// Package scrubber removes embedded metadata (EXIF, XMP, IPTC, text chunks,
// timestamps) from image byte streams without re-encoding pixel data. Each
// format has its own container walker; pixels pass through untouched.
package scrubber

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"metawash/pkg/imgutil"
)

// DefaultRemoved is the advisory summary used when the pre-strip scan finds
// nothing nameable. It matches the wire contract's fallback wording.
const DefaultRemoved = "EXIF / IPTC / XMP metadata"

// Options controls scrub behavior.
type Options struct {
	// PreserveICC keeps ICC color profiles in place. Everything else that
	// looks like metadata is always dropped.
	PreserveICC bool
}

// Result is the outcome of a successful scrub.
type Result struct {
	Data       []byte
	Kind       imgutil.Kind // sniffed from the output bytes
	Removed    string       // human-readable summary of what was dropped
	BytesSaved int64
}

// ErrUnsupported marks inputs the scrubber cannot handle.
var ErrUnsupported = errors.New("unsupported image format")

// Scrub strips metadata from an in-memory image. The input is scanned first
// so the result can report which metadata categories were present.
func Scrub(data []byte, opts Options) (*Result, error) {
	kind, err := imgutil.SniffBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	details, _ := Scan(data) // scan failure never blocks the strip

	var out bytes.Buffer
	switch kind {
	case imgutil.KindJPEG:
		err = stripJPEG(bytes.NewReader(data), &out, opts.PreserveICC)
	case imgutil.KindPNG:
		err = stripPNG(bytes.NewReader(data), &out, opts.PreserveICC)
	case imgutil.KindWEBP:
		err = stripWebP(data, &out, opts.PreserveICC)
	case imgutil.KindBMP:
		// BMP has no standard metadata container.
		_, err = out.Write(data)
	case imgutil.KindTIFF:
		return nil, fmt.Errorf("%w: TIFF stripping not implemented", ErrUnsupported)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}

	cleaned := out.Bytes()
	outKind, err := imgutil.SniffBytes(cleaned)
	if err != nil {
		return nil, fmt.Errorf("scrubbed output unreadable: %w", err)
	}

	return &Result{
		Data:       cleaned,
		Kind:       outKind,
		Removed:    removedSummary(details),
		BytesSaved: int64(len(data) - len(cleaned)),
	}, nil
}

func removedSummary(details []Detail) string {
	if len(details) == 0 {
		return DefaultRemoved
	}
	cats := make([]string, 0, len(details))
	for _, d := range details {
		cats = append(cats, d.Category)
	}
	return "EXIF: " + strings.Join(cats, ", ")
}
