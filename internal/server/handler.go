package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"metawash/internal/scrubber"
	"metawash/internal/validate"
)

const (
	// maxRequestBytes bounds the whole multipart request. Twice the file
	// limit leaves room for the envelope around a maximum-size file.
	maxRequestBytes = 2 * validate.MaxFileBytes
	// maxMemoryBytes is how much of a parsed form stays in memory before
	// spilling to disk.
	maxMemoryBytes = 32 << 20
)

// Handler serves the scrub API.
type Handler struct {
	opts scrubber.Options
}

// NewHandler creates a handler with the given scrub options.
func NewHandler(opts scrubber.Options) *Handler {
	return &Handler{opts: opts}
}

// Home describes the service.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "running",
		"service":           "metawash scrub API",
		"version":           "1.0",
		"endpoints":         []string{"/scrub", "/health", "/formats"},
		"supported_formats": validate.AllowedExtensions(),
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Formats lists the accepted input formats.
func (h *Handler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_formats": validate.AllowedExtensions(),
	})
}

// Scrub accepts one multipart image, strips its metadata, and streams the
// cleaned bytes back. Advisory processing headers ride along on success.
func (h *Handler) Scrub(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// The request cap sits above the file limit so a maximum-size file
	// still fits with its multipart framing; the exact limit is enforced
	// on the decoded file below.
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				"file too large", categoryInput, "Maximum file size is 100 MiB")
			return
		}
		writeError(w, http.StatusBadRequest,
			"invalid multipart form", categoryInput, "Send multipart/form-data with key 'image'")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest,
			"no image provided", categoryInput, "Send multipart/form-data with key 'image'")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "empty filename", categoryInput, "")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError,
			"failed to read upload", categoryProcessing, "Retry the upload")
		return
	}

	if int64(len(data)) > validate.MaxFileBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			"file too large", categoryInput, "Maximum file size is 100 MiB")
		return
	}

	res, err := scrubber.Scrub(data, h.opts)
	if err != nil {
		if errors.Is(err, scrubber.ErrUnsupported) {
			writeError(w, http.StatusBadRequest,
				"invalid or corrupted image file", categoryInput,
				"Upload a valid JPG, PNG, WebP, or BMP image")
			return
		}
		writeError(w, http.StatusInternalServerError,
			"processing failed", categoryProcessing, "Image may be corrupted or malformed")
		return
	}

	w.Header().Set("Content-Type", res.Kind.MediaType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="scrubbed_%s"`, header.Filename))
	w.Header().Set("X-Processing-Time", fmt.Sprintf("%.3f", time.Since(start).Seconds()))
	w.Header().Set("X-Metadata-Removed", res.Removed)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
