// pkg/display/errors.go
package display

import "errors"

var (
	// ErrCommandNotImplemented is returned when a vendor lacks the capability.
	// It is distinct from a query that succeeded with an unknown result.
	ErrCommandNotImplemented = errors.New("command not implemented")

	// ErrCommandArgumentsInvalid is returned for values outside the vendor's accepted table
	ErrCommandArgumentsInvalid = errors.New("command arguments invalid")
)
