package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"internHubAPI/internal/apperr"
	"internHubAPI/internal/validation"
)

const maxRequestBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Every failure is an apperr validation error.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		case errors.As(err, &maxErr):
			return apperr.Validation("Request body too large")
		default:
			return apperr.Validation("Invalid request body")
		}
	}
	return validation.Struct(dst)
}

// queryInt parses an optional integer query parameter. Absent returns nil.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("Query parameter '" + name + "' must be an integer")
	}
	return &n, nil
}
