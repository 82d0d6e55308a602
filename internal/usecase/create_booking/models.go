package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// NextStep tells the client what happens after a successful commit.
type NextStep string

const (
	// NextStepNone means the booking is confirmed, nothing else to do.
	NextStepNone NextStep = "none"
	// NextStepAwaitConfirmation means an administrator must confirm.
	NextStepAwaitConfirmation NextStep = "await_confirmation"
	// NextStepPayment means the customer must complete a payment.
	NextStepPayment NextStep = "payment_required"
)

// Request is a booking commit request.
type Request struct {
	CourtID       int64
	Date          time.Time
	TimeFrom      types.TimeString
	TimeTo        types.TimeString
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	UserID        *int64 // owning account, nil for guest checkout
	AddonIDs      []int64
}

// Response is the committed reservation.
type Response struct {
	ID            int64
	CourtID       int64
	Date          time.Time
	TimeFrom      types.TimeString
	TimeTo        types.TimeString
	Status        string
	PaymentStatus string
	CourtAmount   decimal.Decimal
	TotalAmount   decimal.Decimal
	NextStep      NextStep
	CreatedAt     time.Time
}
