package validation

import (
	apperrors "labportal/internal/common/errors"
)

// Result is the outcome of a short-circuiting validation: Valid, or Invalid
// with the first violated rule's user-facing reason.
type Result struct {
	OK     bool
	Reason string
}

func Valid() Result {
	return Result{OK: true}
}

func Invalid(reason string) Result {
	return Result{Reason: reason}
}

// Err returns nil for a valid result, otherwise a VALIDATION_ERROR carrying the reason.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return apperrors.NewValidationError(r.Reason)
}

func (r Result) String() string {
	if r.OK {
		return "Valid"
	}
	return "Invalid(" + r.Reason + ")"
}
