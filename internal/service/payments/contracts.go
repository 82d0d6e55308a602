package payments

import (
	"context"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/razorpay"
)

// ReservationRepository is the reservation surface the payment flow needs.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	SetPaymentOrder(ctx context.Context, id int64, orderID string) error
	CompletePayment(ctx context.Context, id int64, paymentID, method string) error
}

// CourtRepository provides court metadata for event payloads.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// PaymentRepository persists payment attempts.
type PaymentRepository interface {
	Create(ctx context.Context, rec *domain.PaymentRecord) (*domain.PaymentRecord, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.PaymentRecord, error)
}

// Gateway is the payment gateway surface: order creation, authoritative
// payment lookup and checkout signature verification.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// EventPublisher writes domain events into the outbox of the open
// transaction.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// TransactionManager wraps multi-write operations.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the narrow logging surface of the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
