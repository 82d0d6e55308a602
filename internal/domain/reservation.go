package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// allowed transitions: pending -> confirmed|cancelled,
// confirmed -> cancelled|completed. Terminal states transition nowhere.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the next status is reachable from s.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is legal, otherwise an error.
func (s ReservationStatus) Transition(next ReservationStatus) (ReservationStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, next)
	}
	return next, nil
}

// PaymentStatus is the payment state attached to a reservation.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentNoRefund          PaymentStatus = "no_refund"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed,
		PaymentRefunded, PaymentPartiallyRefunded, PaymentNoRefund:
		return true
	}
	return false
}

// Customer identifies who the reservation is for.
type Customer struct {
	Name   string
	Email  string
	Phone  string
	UserID *int64 // owning account, nil for guest bookings
}

// Reservation is the durable record of a customer's claim on a time slot.
type Reservation struct {
	ID       int64
	CourtID  int64
	Date     time.Time
	TimeFrom types.TimeString
	TimeTo   types.TimeString
	Status   ReservationStatus

	Customer Customer

	CourtAmount decimal.Decimal // slot price alone
	TotalAmount decimal.Decimal // slot price + add-ons

	PaymentStatus  PaymentStatus
	PaymentOrderID *string
	PaymentID      *string
	PaymentMethod  *string
	PaidAt         *time.Time

	Addons []AddonSelection

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsSlot reports whether the reservation blocks its time window.
// Only pending and confirmed reservations hold their slot.
func (r *Reservation) HoldsSlot() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled reports whether cancellation is reachable from the
// current status.
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// IsPayable reports whether a payment order may be created for the
// reservation.
func (r *Reservation) IsPayable() bool {
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return false
	}
	return r.PaymentStatus != PaymentCompleted
}

// OwnedBy reports whether the reservation belongs to the given account.
func (r *Reservation) OwnedBy(userID int64) bool {
	return r.Customer.UserID != nil && *r.Customer.UserID == userID
}

// StartsAt combines the reservation date with its start time. Booking
// dates and times carry no zone of their own (DATE and TIME columns
// scan zoneless and are kept in UTC end to end), so the calendar day is
// read as stored and anchored in UTC. The result does not depend on the
// server's local zone.
func (r *Reservation) StartsAt() time.Time {
	mins, err := r.TimeFrom.Minutes()
	if err != nil {
		return r.Date
	}
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(mins) * time.Minute)
}

// ReservationFilter narrows reservation queries.
type ReservationFilter struct {
	CourtID      *int64
	Date         *time.Time
	UserID       *int64
	Status       *ReservationStatus
	OnlyHolding  bool // restrict to pending/confirmed
	ForUpdate    bool // lock matched rows (only honoured inside a transaction)
}
