package domain

import "errors"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllowedSlotDurations is the fixed set of slot lengths a court may be
// configured with, in minutes.
var AllowedSlotDurations = []int{30, 60, 90, 120}

// IsAllowedSlotDuration reports whether minutes is a configurable slot length.
func IsAllowedSlotDuration(minutes int) bool {
	for _, d := range AllowedSlotDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// ErrInvalidStatusTransition is returned by status transition functions
// when the requested move is not legal.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// ConfirmationMode selects what happens to a freshly created reservation.
type ConfirmationMode string

const (
	// ConfirmAuto confirms the reservation immediately at commit.
	ConfirmAuto ConfirmationMode = "auto"
	// ConfirmManual leaves the reservation pending until an administrator
	// confirms it.
	ConfirmManual ConfirmationMode = "manual"
	// ConfirmOnPayment leaves the reservation pending and routes the
	// customer to the payment step; payment completion confirms it.
	ConfirmOnPayment ConfirmationMode = "payment"
)

// Valid reports whether m is a known confirmation mode.
func (m ConfirmationMode) Valid() bool {
	return m == ConfirmAuto || m == ConfirmManual || m == ConfirmOnPayment
}

// RefundPolicy is the label applied to a paid reservation's payment status
// when it is cancelled. Actual refund execution is the payment
// collaborator's concern.
type RefundPolicy string

const (
	RefundFull    RefundPolicy = "full"
	RefundPartial RefundPolicy = "partial"
	RefundNone    RefundPolicy = "none"
)

// PaymentStatusOnCancel maps the policy to the payment status label.
func (p RefundPolicy) PaymentStatusOnCancel() PaymentStatus {
	switch p {
	case RefundFull:
		return PaymentRefunded
	case RefundPartial:
		return PaymentPartiallyRefunded
	default:
		return PaymentNoRefund
	}
}

// Valid reports whether p is a known refund policy.
func (p RefundPolicy) Valid() bool {
	return p == RefundFull || p == RefundPartial || p == RefundNone
}
