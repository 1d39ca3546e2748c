package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/probank/probank/internal/content"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status
// code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeContentError maps a typed core error onto an HTTP status.
// Unclassified errors are logged and surface as a generic 500.
func writeContentError(w http.ResponseWriter, err error) {
	switch content.KindOf(err) {
	case content.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
	case content.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case content.KindForbidden:
		writeError(w, http.StatusForbidden, err.Error(), "forbidden")
	case content.KindConflict:
		writeError(w, http.StatusConflict, err.Error(), "conflict")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}
