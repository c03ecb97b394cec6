package api

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform JSON wrapper returned by every endpoint.
// Status is always present; the remaining fields appear only when set.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// newEnvelope builds a response envelope. Data is included only when
// non-nil, count only when explicitly given, message only when non-empty.
// Status values are not validated; callers pass StatusSuccess or
// StatusError consistently.
func newEnvelope(status string, data any, message string, count *int) Envelope {
	e := Envelope{Status: status}
	if data != nil {
		e.Data = data
	}
	if count != nil {
		e.Count = count
	}
	if message != "" {
		e.Message = message
	}
	return e
}

// writeJSON writes v as a JSON response with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondData writes a success envelope carrying data only.
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, newEnvelope(StatusSuccess, data, "", nil))
}

// respondList writes a success envelope carrying data plus a count.
func respondList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, newEnvelope(StatusSuccess, data, "", &count))
}

// respondError writes an error envelope with the given HTTP status.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, newEnvelope(StatusError, nil, message, nil))
}
