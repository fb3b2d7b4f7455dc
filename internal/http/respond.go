package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// messageBody is the uniform message envelope used for errors and
// confirmation-only replies.
type messageBody struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageBody{Message: message})
}

func respondInternalError(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, "Server error")
}
