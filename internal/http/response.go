package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Every business endpoint answers a JSON object whose "status" field is
// one of success, error or exists. Extra payload fields ride alongside.

type payload map[string]any

func writeJSON(w http.ResponseWriter, statusCode int, body payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeSuccess answers 200 with status success plus any extra fields.
func writeSuccess(w http.ResponseWriter, extra payload) {
	body := payload{"status": "success"}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError answers the given status code with status error and a
// human-readable message.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, payload{"status": "error", "message": message})
}

// writeExists answers 200 with status exists. Duplicates are a business
// outcome, not a transport failure.
func writeExists(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, payload{"status": "exists", "message": message})
}
