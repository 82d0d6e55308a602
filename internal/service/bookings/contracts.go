package bookings

import (
	"context"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
)

// ReservationRepository is the schedule store surface the service uses.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// CourtRepository provides court metadata for event payloads.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// AddonRepository reads the add-on snapshots of a reservation.
type AddonRepository interface {
	GetByReservationID(ctx context.Context, reservationID int64) ([]domain.AddonSelection, error)
}

// HistoryRepository appends to the audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.SlotHistoryEntry) error
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
