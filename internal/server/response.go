package server

import (
	"encoding/json"
	"net/http"
)

// Error categories on the wire, matching the scrub contract.
const (
	categoryInput      = "input_error"
	categoryProcessing = "processing_error"
)

// errorBody is the structured error envelope clients parse.
type errorBody struct {
	Error    string `json:"error"`
	Category string `json:"category"`
	Hint     string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, category, hint string) {
	writeJSON(w, status, errorBody{Error: message, Category: category, Hint: hint})
}
