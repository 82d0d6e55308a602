package payments

import "errors"

var (
	// ErrBookingNotFound is returned when the reservation does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied is returned when the caller is neither the owner
	// nor an administrator.
	ErrAccessDenied = errors.New("access denied")

	// ErrPaymentsDisabled is returned when no payment gateway is
	// configured.
	ErrPaymentsDisabled = errors.New("payments are not enabled")

	// ErrNotPayable is returned when the reservation's status or payment
	// state does not permit opening an order.
	ErrNotPayable = errors.New("booking is not payable")

	// ErrInvalidAmount is returned when the reservation total does not
	// convert to a positive whole number of minor currency units.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrOrderMismatch is returned when the submitted order id does not
	// match the order attached to the reservation.
	ErrOrderMismatch = errors.New("order does not belong to this booking")

	// ErrSignatureInvalid is returned when the checkout signature fails
	// verification. Integrity failure, never retried.
	ErrSignatureInvalid = errors.New("payment signature verification failed")

	// ErrPaymentNotCaptured is returned when the gateway reports the
	// payment exists but its funds are not secured.
	ErrPaymentNotCaptured = errors.New("payment is not captured")

	// ErrAmountMismatch is returned when the captured amount differs from
	// the reservation total.
	ErrAmountMismatch = errors.New("captured amount does not match booking total")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected service failures.
	ErrInternal = errors.New("service: internal error")
)
