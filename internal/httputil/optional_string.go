package httputil

import (
	"bytes"
	"encoding/json"

	"applytrack/internal/domain/services"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396).
// This enables proper tri-state handling that Go's *string cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear/set to NULL)
//   - Present=true, Value=&"": field is empty string
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Optional converts to the service-layer tri-state
func (o OptionalString) Optional() services.Optional[string] {
	return services.Optional[string]{Present: o.Present, Value: o.Value}
}

// OptionalQuery reads a query parameter with the same tri-state meaning:
// absent, "null" or empty (clear), or a value.
func OptionalQuery(values map[string][]string, key string) OptionalString {
	v, ok := values[key]
	if !ok {
		return OptionalString{}
	}
	if len(v) == 0 || v[0] == "" || v[0] == "null" {
		return OptionalString{Present: true}
	}
	s := v[0]
	return OptionalString{Present: true, Value: &s}
}
