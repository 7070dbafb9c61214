package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response is the generic JSON error envelope, matching the shape the
// API clients expect: {"message": "..."}.
type Response struct {
	Message string `json:"message"`
}

// validate is shared across handlers; a single instance caches struct parsing.
var validate = validator.New()

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Message: message})
}

// decodeJSON decodes the request body into v, rejecting unknown fields,
// then runs struct validation.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return validate.Struct(v)
}
