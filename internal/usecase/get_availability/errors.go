package get_availability

import "errors"

var (
	// ErrCourtNotFound is returned when the court does not exist.
	ErrCourtNotFound = errors.New("court not found")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected use case failures.
	ErrInternal = errors.New("usecase: internal error")
)
