package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musiclabel/internal/auth"
	"github.com/desertthunder/musiclabel/internal/shared"
)

// ErrorBody is the envelope of every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "internal server error",
}

// StatusMessage returns the envelope message for status.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// WriteStatus writes the error envelope for status with its standard message.
func WriteStatus(w http.ResponseWriter, status int) {
	WriteJSON(w, status, ErrorBody{Error: status, Message: StatusMessage(status)})
}

// ErrorStatus maps err to the HTTP status it is reported with.
func ErrorStatus(err error) int {
	if authErr, ok := auth.AsError(err); ok {
		return authErr.Status
	}

	switch {
	case errors.Is(err, shared.ErrMissingField),
		errors.Is(err, shared.ErrInvalidDate),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// WriteError writes the envelope for err.
//
// Authentication failures carry their own description. Storage failures are logged with the
// request logger and reported as a bare 422.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())

	if authErr, ok := auth.AsError(err); ok {
		logger.Warn("request rejected", "code", authErr.Code, "status", authErr.Status)
		WriteJSON(w, authErr.Status, ErrorBody{Error: authErr.Status, Message: authErr.Description})
		return
	}

	status := ErrorStatus(err)
	if status == http.StatusUnprocessableEntity && !errors.Is(err, shared.ErrUnprocessable) {
		logger.Error("storage failure", "error", err)
	} else {
		logger.Debug("request failed", "status", status, "error", err)
	}
	WriteStatus(w, status)
}

// NotFound answers unknown paths.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteStatus(w, http.StatusNotFound)
}

// MethodNotAllowed answers known paths requested with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteStatus(w, http.StatusMethodNotAllowed)
}
