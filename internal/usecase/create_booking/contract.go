package create_booking

import (
	"context"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"

	"github.com/shopspring/decimal"
)

// CourtRepository loads court configuration.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ReservationRepository is the schedule store surface the commit path uses.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// AddonRepository reads the add-on catalog and writes booking snapshots.
type AddonRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Addon, error)
	CreateSelections(ctx context.Context, selections []domain.AddonSelection) error
}

// HistoryRepository appends to the audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.SlotHistoryEntry) error
}

// HudleClient re-verifies the external schedule at commit time. Failures
// here reject the booking (fail closed).
type HudleClient interface {
	IsRangeFree(ctx context.Context, facilityID, activityID string, date time.Time, timeFrom, timeTo types.TimeString) (bool, error)
}

// PricingEngine computes the charge amounts.
type PricingEngine interface {
	PriceSlot(court *domain.Court, date time.Time, timeFrom, timeTo types.TimeString) (decimal.Decimal, error)
	PriceAddon(addon *domain.Addon, durationHours decimal.Decimal) decimal.Decimal
}

// EventPublisher writes domain events into the outbox of the open
// transaction.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// TransactionManager runs the commit's check-then-insert serializably.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the narrow logging surface of the use case.
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
