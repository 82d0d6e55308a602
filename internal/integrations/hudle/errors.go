package hudle

import "errors"

var (
	// ErrInternal is returned on client-side failures (request building,
	// transport).
	ErrInternal = errors.New("hudle client: internal error")

	// ErrInvalidResponse is returned on non-2xx statuses or malformed
	// response bodies.
	ErrInvalidResponse = errors.New("hudle client: invalid response")

	// ErrUnauthorized is returned when the bearer token is rejected.
	ErrUnauthorized = errors.New("hudle client: unauthorized")
)
