// Package download materializes a scrub result as a local file. Names embed
// a timestamp and a nonce so repeated downloads never collide, and the
// extension always follows the OUTPUT media type.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"metawash/internal/widget"
	"metawash/pkg/imgutil"
)

// FileName builds the download name for an output media type.
func FileName(mediaType string, now time.Time) string {
	ext := imgutil.FromMediaType(mediaType).Ext()
	if ext == "" {
		ext = "bin"
	}
	nonce := uuid.NewString()[:8]
	return fmt.Sprintf("scrubbed_%d_%s.%s", now.Unix(), nonce, ext)
}

// Save writes the result into dir and returns the full path. The write goes
// through a temp file and a rename so a crash never leaves a torn download.
func Save(dir string, res *widget.ScrubResult) (string, error) {
	if res == nil {
		return "", fmt.Errorf("no scrub result to save")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, FileName(res.MediaType, time.Now()))

	tmp, err := os.CreateTemp(dir, "metawash-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}
