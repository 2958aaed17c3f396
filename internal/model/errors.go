package model

import "fmt"

// DecodeError reports a response payload that failed schema validation.
// Upstream data problems must stay distinguishable from transport and
// status failures, so every decode/validation failure is wrapped in one
// of these.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "malformed upstream data"
	}
	return fmt.Sprintf("malformed %s payload: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// fieldError is the per-field validation failure used by the Validate
// methods on wire types.
func fieldError(field, reason string) error {
	return fmt.Errorf("field %q %s", field, reason)
}
