// Package scrubclient talks to the scrub service over its HTTP contract:
// POST /scrub with a multipart "image" field returns the cleaned bytes, and
// GET /health reports liveness. The service's processing internals are
// opaque to this package.
package scrubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Advisory response headers. Their absence never fails a request.
const (
	headerProcessingTime  = "X-Processing-Time"
	headerMetadataRemoved = "X-Metadata-Removed"
)

// Client is a scrub service client bound to a fixed base address.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Result is a successful scrub round trip.
type Result struct {
	Data      []byte
	MediaType string        // from the response Content-Type, never the input
	SizeDelta int64         // input size minus output size
	Elapsed   time.Duration // server-reported when available, else round trip
	Removed   string        // advisory removed-metadata summary
}

// ServiceError is an application-level rejection: the service answered with
// a non-2xx status and (usually) a structured body.
type ServiceError struct {
	Status   int
	Message  string
	Category string
	Hint     string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NetworkError means the service could not be reached at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("scrub service unreachable (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Scrub uploads one image and returns the cleaned bytes.
func (c *Client) Scrub(ctx context.Context, data []byte, fileName, mediaType string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, fileName))
	if mediaType != "" {
		header.Set("Content-Type", mediaType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrub", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "scrub", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeServiceError(resp)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read response", Err: err}
	}

	elapsed := time.Since(start)
	if raw := resp.Header.Get(headerProcessingTime); raw != "" {
		if secs, perr := strconv.ParseFloat(raw, 64); perr == nil && secs >= 0 {
			elapsed = time.Duration(secs * float64(time.Second))
		}
	}

	return &Result{
		Data:      out,
		MediaType: resp.Header.Get("Content-Type"),
		SizeDelta: int64(len(data) - len(out)),
		Elapsed:   elapsed,
		Removed:   resp.Header.Get(headerMetadataRemoved),
	}, nil
}

// CheckHealth probes GET /health once. Callers treat failure as advisory.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Op: "health", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scrub service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// decodeServiceError parses the structured error body. Malformed bodies fall
// back to a generic message; this function never fails.
func decodeServiceError(resp *http.Response) *ServiceError {
	svcErr := &ServiceError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("scrub service returned status %d", resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return svcErr
	}

	var parsed struct {
		Error    string `json:"error"`
		Category string `json:"category"`
		Hint     string `json:"hint"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == "" {
		return svcErr
	}

	svcErr.Message = parsed.Error
	svcErr.Category = parsed.Category
	svcErr.Hint = parsed.Hint
	return svcErr
}
