// Package handlers contains all HTTP handler functions for the corvus
// control plane Control API. each handler file groups related endpoints by
// resource or concern. handlers receive a decoded request, call into the
// daemon state layer, and write a JSON response. no business logic lives in
// handlers; they are thin translation layers between HTTP and the domain.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJsonAndRespond serializes the given payload to JSON and writes it to
// the response, setting Content-Type and the given HTTP status code.
// if JSON encoding fails (which should not happen with well-defined response
// structs), it falls back to a plain text 500 response.
func writeJsonAndRespond(responseWriter http.ResponseWriter, statusCode int, dataPayload any) {
	responseWriter.Header().Set("Content-Type", "application/json")

	serializedData, err := json.Marshal(dataPayload)
	if err != nil {
		http.Error(responseWriter, `{"error":"internal encoding error"}`, http.StatusInternalServerError)
		return
	}

	responseWriter.WriteHeader(statusCode)
	responseWriter.Write(serializedData) // nolint:errcheck -- write errors are not actionable on the server side
}

// writeErrorJsonAndLogIt logs the error at level ERROR and writes a
// standard JSON error response {"error": "..."}. callers pass in a logger
// so the error is also logged server-side with context. the message sent
// to the client is always a controlled string, never a raw Go error.
func writeErrorJsonAndLogIt(responseWriter http.ResponseWriter, statusCode int, message string, logger *slog.Logger) {
	logger.Error("request error", "status", statusCode, "message", message)
	writeJsonAndRespond(responseWriter, statusCode, map[string]string{"error": message})
}
