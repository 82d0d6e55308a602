package payment

import "errors"

var (
	// ErrPaymentNotFound is returned when no payment record matches.
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrDuplicatePayment is returned when a payment id was already
	// recorded.
	ErrDuplicatePayment = errors.New("payment.repository: payment already recorded")

	// ErrBuildQuery is returned when a SQL query cannot be built.
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails to execute.
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
