package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/evalca-server/internal/apierror"
)

const (
	maxJSONBodyBytes = 1 << 20
	msgRequired      = "Field required"
)

// decodeJSON reads a JSON object into dst. Malformed bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return invalidBody("Request body must not be empty")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			v := apierror.ValidationErrors{}
			v.Add(typeErr.Field, "Invalid value type.")
			return v.Err()
		default:
			return invalidBody("Request body must be a valid JSON object")
		}
	}
	return nil
}

func invalidBody(msg string) error {
	v := apierror.ValidationErrors{}
	v.Add(apierror.NonFieldErrors, msg)
	return v.Err()
}

// required adds a message for every named value that is nil.
func required(fields map[string]*string) error {
	v := apierror.ValidationErrors{}
	for name, value := range fields {
		if value == nil {
			v.Add(name, msgRequired)
		}
	}
	return v.Err()
}
