package create_booking

import "errors"

var (
	// ErrCourtNotFound is returned when the court does not exist.
	ErrCourtNotFound = errors.New("court not found")

	// ErrCourtClosed is returned when the court is not open on the
	// requested date.
	ErrCourtClosed = errors.New("court is closed on this date")

	// ErrSlotNotAvailable is returned when the requested range is no
	// longer free, locally or in the external system. Distinct from
	// validation errors so the client can offer another slot.
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrAddonNotFound is returned when a requested add-on is missing or
	// inactive.
	ErrAddonNotFound = errors.New("addon not found")

	// ErrExternalCheckFailed is returned when the external facility
	// system cannot be consulted at commit time. The booking is rejected
	// rather than risking a double booking against the system of record.
	ErrExternalCheckFailed = errors.New("external schedule check failed")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected use case failures.
	ErrInternal = errors.New("usecase: internal error")
)
