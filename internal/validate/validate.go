// Package validate checks candidate upload files before any preview or
// network work happens. Checks run in a fixed order and the first failure
// wins, so rejection reasons are deterministic.
package validate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileBytes is the upload size ceiling: 100 MiB exactly.
const MaxFileBytes = 100 * 1024 * 1024

// allowedExts is the client-side extension allow-list. TIFF is deliberately
// absent; the scrub service rejects it too.
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
}

// Outcome is the result of validating a candidate file. It is either
// accepted or rejected with a reason and a corrective hint; never both.
type Outcome struct {
	Accepted bool
	Reason   string
	Hint     string
}

func accepted() Outcome {
	return Outcome{Accepted: true}
}

func rejected(reason, hint string) Outcome {
	return Outcome{Reason: reason, Hint: hint}
}

// File validates a candidate by name and declared size. Order: extension
// first, then size.
func File(name string, size int64) Outcome {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExts[ext] {
		return rejected(
			fmt.Sprintf("unsupported file type %q", ext),
			"Choose a JPG, PNG, WebP, or BMP image",
		)
	}

	if size <= 0 {
		return rejected("file is empty", "Choose a non-empty image file")
	}
	if size > MaxFileBytes {
		return rejected(
			fmt.Sprintf("file is too large (%d bytes)", size),
			"Maximum file size is 100 MiB",
		)
	}

	return accepted()
}

// AllowedExtensions lists the accepted extensions without dots, in display
// order.
func AllowedExtensions() []string {
	return []string{"jpg", "jpeg", "png", "webp", "bmp"}
}
