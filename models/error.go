package models

import (
	"errors"
	"net/http"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries a human-readable message plus optional structured
// context (never the uniform ErrAuth's cause — that stays undetailed).
type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StatusForError maps a stegoerr sentinel to the HTTP status the CLI's
// exit codes also key off of: 2 capacity/format, 3 auth, 4 no data, 5 cancelled.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, stegoerr.ErrCapacity), errors.Is(err, stegoerr.ErrFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stegoerr.ErrAuth), errors.Is(err, stegoerr.ErrKeyRequired):
		return http.StatusUnauthorized
	case errors.Is(err, stegoerr.ErrCancelled):
		return http.StatusRequestTimeout
	case errors.Is(err, stegoerr.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
