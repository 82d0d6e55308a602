package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the reservation does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied is returned when the caller is neither the owner
	// nor an administrator.
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel is returned when the reservation's status does not
	// permit cancellation.
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationTooLate is returned when the cancellation lead-time
	// policy forbids the cancellation. Policy violation, not validation.
	ErrCancellationTooLate = errors.New("cancellation window has closed")

	// ErrCannotConfirm is returned when the reservation is not pending.
	ErrCannotConfirm = errors.New("booking cannot be confirmed")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected service failures.
	ErrInternal = errors.New("service: internal error")
)
