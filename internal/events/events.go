// Package events defines the booking domain events published through the
// transactional outbox. Events are written in the same database transaction
// as the state change they describe and delivered asynchronously by the
// sync worker.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	// TopicBookingPending carries BookingPending payloads.
	TopicBookingPending = "booking.pending"
	// TopicBookingConfirmed carries BookingConfirmed payloads.
	TopicBookingConfirmed = "booking.confirmed"
	// TopicBookingCancelled carries BookingCancelled payloads.
	TopicBookingCancelled = "booking.cancelled"
)

// BookingPending is emitted when a booking is committed under manual
// confirmation and awaits an administrator's decision. The customer is
// told the request was received, not that the slot is theirs yet.
type BookingPending struct {
	ReservationID int64     `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	CourtName     string    `json:"court_name"`
	Date          string    `json:"date"`
	TimeFrom      string    `json:"time_from"`
	TimeTo        string    `json:"time_to"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalAmount   string    `json:"total_amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingConfirmed is emitted when a reservation reaches confirmed status,
// whether by auto-confirmation, admin action or a verified payment.
type BookingConfirmed struct {
	ReservationID int64     `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	CourtName     string    `json:"court_name"`
	Date          string    `json:"date"`
	TimeFrom      string    `json:"time_from"`
	TimeTo        string    `json:"time_to"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalAmount   string    `json:"total_amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelled is emitted when a reservation is cancelled.
type BookingCancelled struct {
	ReservationID int64     `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	Date          string    `json:"date"`
	TimeFrom      string    `json:"time_from"`
	TimeTo        string    `json:"time_to"`
	CustomerEmail string    `json:"customer_email"`
	CancelledBy   string    `json:"cancelled_by"` // "customer" or "admin"
	RefundOutcome string    `json:"refund_outcome"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewMessage marshals an event payload into a watermill message.
func NewMessage(payload interface{}) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	return message.NewMessage(uuid.NewString(), data), nil
}
