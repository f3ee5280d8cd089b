// Package validate implements the protocol's structural, economic,
// access, and cryptographic invariants. Each check is independently
// invocable; Validator composes them in order and short-circuits on
// the first failure.
package validate

import "fmt"

// Check names one of the six rule families.
type Check string

const (
	CheckContent    Check = "content"
	CheckVersion    Check = "version"
	CheckProvenance Check = "provenance"
	CheckPayment    Check = "payment"
	CheckMessage    Check = "message"
	CheckAccess     Check = "access"
)

// ValidationError carries enough context to render a user message and
// to map onto a protocol error code.
type ValidationError struct {
	Check  Check
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validate: %s check failed on %s: %s", e.Check, e.Field, e.Reason)
	}
	return fmt.Sprintf("validate: %s check failed: %s", e.Check, e.Reason)
}

func fail(check Check, field, reason string) *ValidationError {
	return &ValidationError{Check: check, Field: field, Reason: reason}
}
