// Package response writes the uniform JSON envelope used by every endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/evalca-server/internal/apierror"
	"github.com/dtroode/evalca-server/internal/logger"
)

// Envelope is the body of every response.
type Envelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"status_code"`
}

// JSON writes data wrapped in the envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Message:    message,
		Data:       data,
		StatusCode: status,
	})
}

// Error normalises err into an APIError and writes it.
// Errors that are not APIErrors are logged and reported as internal.
func Error(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	apiErr, ok := apierror.As(err)
	if !ok {
		apiErr = apierror.NewErrInternalServerError(err)
	}
	if apiErr.Kind == apierror.KindInternal && log != nil {
		log.Error("HTTP: request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}

	JSON(w, apiErr.HTTPStatus(), apiErr.Message(), apiErr.Fields)
}
