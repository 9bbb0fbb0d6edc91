// Package widget models the upload flow as an explicit state machine:
//
//	Empty -> Loaded -> Processing -> Done
//
// with Error reachable from Loaded or Processing and Reset returning to
// Empty from anywhere. The machine owns the single "current file" and
// "current result" slots and is driven from one control thread; async work
// (decode, upload) happens outside and reports back through Finish.
package widget

import (
	"bytes"
	"errors"
	"image"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"metawash/internal/scrubclient"
	"metawash/internal/validate"
	"metawash/pkg/imgutil"
)

// State is the widget's lifecycle position.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateProcessing
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateProcessing:
		return "processing"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "invalid"
	}
}

// SelectedFile is the single current input slot. Selecting a new file
// replaces it wholesale.
type SelectedFile struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
	Kind      imgutil.Kind
	Width     int // 0 when dimensions could not be decoded
	Height    int
}

// ScrubResult is the output slot, valid only for the file it was produced
// from. Its media type is derived from the output bytes, never the input.
type ScrubResult struct {
	Data      []byte
	MediaType string
	SizeDelta int64
	Elapsed   time.Duration
	Removed   string
}

// ValidationError rejects a candidate before any preview or upload.
type ValidationError struct {
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string { return e.Reason }

// DecodeError means the file passed validation but its bytes are not a
// recognizable image; the selection is cleared when this happens.
type DecodeError struct {
	Name string
}

func (e *DecodeError) Error() string {
	return "cannot decode " + e.Name + " as an image"
}

var (
	// ErrScrubInFlight guards the single-flight invariant: triggering a
	// scrub while one is processing is a no-op.
	ErrScrubInFlight = errors.New("a scrub is already in flight")
	// ErrNoFile rejects a scrub with nothing selected.
	ErrNoFile = errors.New("no file selected")
)

// Widget is the upload state machine. Not safe for concurrent use; drive it
// from a single control thread and deliver async completions via Finish.
type Widget struct {
	state   State
	file    *SelectedFile
	result  *ScrubResult
	lastErr error
}

// New returns a widget in the Empty state.
func New() *Widget {
	return &Widget{state: StateEmpty}
}

func (w *Widget) State() State         { return w.state }
func (w *Widget) File() *SelectedFile  { return w.file }
func (w *Widget) Result() *ScrubResult { return w.result }
func (w *Widget) Err() error           { return w.lastErr }

// Select validates and loads a candidate file, replacing any prior
// selection and discarding any prior result. While a scrub is processing the
// call is refused without touching state.
func (w *Widget) Select(name string, data []byte) error {
	if w.state == StateProcessing {
		return ErrScrubInFlight
	}

	if out := validate.File(name, int64(len(data))); !out.Accepted {
		return &ValidationError{Reason: out.Reason, Hint: out.Hint}
	}

	kind, err := imgutil.SniffBytes(data)
	if err != nil || kind == imgutil.KindUnknown {
		// The bytes are not a renderable image: clear the slot entirely.
		w.file = nil
		w.result = nil
		w.lastErr = nil
		w.state = StateEmpty
		return &DecodeError{Name: name}
	}

	file := &SelectedFile{
		Name:      name,
		MediaType: kind.MediaType(),
		Size:      int64(len(data)),
		Data:      data,
		Kind:      kind,
	}
	// Pixel dimensions are advisory; not every supported format has a
	// registered decoder.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		file.Width = cfg.Width
		file.Height = cfg.Height
	}

	w.file = file
	w.result = nil
	w.lastErr = nil
	w.state = StateLoaded
	return nil
}

// Begin starts a scrub round trip, enforcing single flight. It returns the
// file snapshot the caller should upload.
func (w *Widget) Begin() (*SelectedFile, error) {
	if w.state == StateProcessing {
		return nil, ErrScrubInFlight
	}
	if w.file == nil {
		return nil, ErrNoFile
	}

	w.state = StateProcessing
	return w.file, nil
}

// Finish applies the outcome of the in-flight scrub. Completions that arrive
// when nothing is processing (for example after a reset) are dropped.
func (w *Widget) Finish(res *scrubclient.Result, err error) {
	if w.state != StateProcessing {
		return
	}

	if err != nil {
		w.lastErr = err
		w.state = StateError
		return
	}

	mediaType := res.MediaType
	if kind, serr := imgutil.SniffBytes(res.Data); serr == nil && kind != imgutil.KindUnknown {
		mediaType = kind.MediaType()
	}

	w.result = &ScrubResult{
		Data:      res.Data,
		MediaType: mediaType,
		SizeDelta: res.SizeDelta,
		Elapsed:   res.Elapsed,
		Removed:   res.Removed,
	}
	w.lastErr = nil
	w.state = StateDone
}

// Reset returns to Empty unconditionally, dropping both slots.
func (w *Widget) Reset() {
	w.file = nil
	w.result = nil
	w.lastErr = nil
	w.state = StateEmpty
}

// DownloadAvailable reports whether the current result may be saved.
func (w *Widget) DownloadAvailable() bool {
	return w.state == StateDone && w.result != nil
}

// FailureText maps an error from any widget action to user-facing text.
// Network failures read differently from service rejections so the user
// knows whether to retry or to fix the file.
func FailureText(err error) (msg, hint string) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Reason, valErr.Hint
	}

	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.Error(), "Choose a different image file"
	}

	var netErr *scrubclient.NetworkError
	if errors.As(err, &netErr) {
		return "cannot reach the scrub service", "Check that the service is running, then retry"
	}

	var svcErr *scrubclient.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message, svcErr.Hint
	}

	if err != nil {
		return err.Error(), ""
	}
	return "", ""
}
