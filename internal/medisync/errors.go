package medisync

import "fmt"

// MissingFieldError reports that a required canonical field was absent
// from every candidate source key of a raw backend record. The record is
// unusable; callers exclude it from the rendered list and log the raw
// payload rather than failing the whole fetch.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("medisync: %s record is missing required field %q", e.Entity, e.Field)
}

// InvalidFieldError reports a field that was present but unusable: an
// unrecognized status string, an unparsable timestamp, or an end time
// that does not follow the start time.
type InvalidFieldError struct {
	Entity string
	Field  string
	Value  any
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("medisync: %s record has invalid %s value %v", e.Entity, e.Field, e.Value)
}

// APIError is a non-2xx response from the backend. Detail carries the
// backend's own message when the body has a FastAPI-style detail field.
type APIError struct {
	Action string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("medisync: %s failed (status %d): %s", e.Action, e.Status, e.Detail)
	}
	return fmt.Sprintf("medisync: %s failed (status %d)", e.Action, e.Status)
}
