// Package server exposes the scrub API over HTTP:
//
//	GET  /         service info
//	GET  /health   liveness
//	GET  /formats  accepted input formats
//	POST /scrub    multipart field "image" -> cleaned image bytes
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"metawash/internal/scrubber"
)

// NewRouter wires middleware and routes for the scrub service.
func NewRouter(opts scrubber.Options) http.Handler {
	h := NewHandler(opts)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	// The upload widget may also run as a browser page; keep CORS open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Processing-Time", "X-Metadata-Removed"},
		MaxAge:         300,
	}))

	r.Get("/", h.Home)
	r.Get("/health", h.Health)
	r.Get("/formats", h.Formats)
	r.Post("/scrub", h.Scrub)

	return r
}
