package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/reebsmooth/pkg/errors"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// fail writes err using the status implied by its code.
func fail(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
		return
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, statusFor(code), string(code), errors.UserMessage(err))
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch {
	case code == errors.ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case code.IsInvalid():
		return http.StatusBadRequest
	case code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
