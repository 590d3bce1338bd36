package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

const maxJSONBody = 1 << 20

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes a bounded request body into dst. An empty body leaves
// dst untouched.
func readJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}
