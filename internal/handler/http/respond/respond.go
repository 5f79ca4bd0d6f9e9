// Package respond centralizes HTTP response writing: JSON encoding and the
// mapping from pipeline errors to status codes and stable error codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docsum/internal/domain/entity"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// Error maps a pipeline error to its HTTP status and writes the error body.
// Input and configuration problems are the caller's fault (400), content
// that arrived but could not be extracted is unprocessable (422), upstream
// source failures are bad gateways (502), deadline overruns are gateway
// timeouts (504), and everything else is a server failure (500).
//
// Only the sanitized sentinel message is sent to the client; wrapped causes
// stay in the logs.
func Error(w http.ResponseWriter, err error) {
	var pe *entity.PipelineError
	if !errors.As(err, &pe) {
		JSON(w, http.StatusInternalServerError,
			ErrorBody{Error: "summarization failed", Code: "internal"})
		return
	}

	JSON(w, statusFor(pe.Kind), ErrorBody{Error: pe.Msg, Code: string(pe.Code)})
}

// BadRequest writes a 400 with a handler-level validation message.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: msg, Code: "invalid_request"})
}

func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindInput, entity.KindConfiguration:
		return http.StatusBadRequest
	case entity.KindExtraction:
		return http.StatusUnprocessableEntity
	case entity.KindUpstream:
		return http.StatusBadGateway
	case entity.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
