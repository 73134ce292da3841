// Package httptransport is the thin HTTP layer. Handlers decode requests,
// delegate to domain services, and translate coded errors; business logic
// stays out of this package.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "traceline/pkg/domain-errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError centralizes domain error translation so every handler returns the
// same JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := ""
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), errorResponse{
		Error:   string(code),
		Message: message,
	})
}
