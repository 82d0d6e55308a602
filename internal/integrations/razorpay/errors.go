package razorpay

import "errors"

var (
	// ErrInternal is returned on client-side failures (request building,
	// transport).
	ErrInternal = errors.New("razorpay client: internal error")

	// ErrInvalidResponse is returned on non-2xx statuses or malformed
	// response bodies.
	ErrInvalidResponse = errors.New("razorpay client: invalid response")

	// ErrSignatureMismatch is returned when a supplied payment signature
	// does not match the recomputed HMAC. Integrity failure, never retried.
	ErrSignatureMismatch = errors.New("razorpay client: signature mismatch")
)
