package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"applytrack/internal/domain"
)

// maxBodyBytes bounds JSON request bodies. Postings are the largest payload.
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return nil
}

// QueryString returns a pointer to the named query parameter, nil when absent
func QueryString(r *http.Request, name string) *string {
	values := r.URL.Query()
	if !values.Has(name) {
		return nil
	}
	v := values.Get(name)
	return &v
}

// QueryInt parses an optional integer query parameter
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := QueryString(r, name)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("%s must be an integer", name), Field: name}
	}
	return &n, nil
}
