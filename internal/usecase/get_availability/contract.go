package get_availability

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// CourtRepository loads court configuration.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ReservationRepository reads the schedule store.
type ReservationRepository interface {
	Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// HudleClient reads the external facility schedule. Failures on this path
// degrade to local-only availability.
type HudleClient interface {
	GetSlots(ctx context.Context, facilityID, activityID string, date time.Time) ([]hudle.RemoteSlot, error)
}

// PricingEngine annotates slots with prices.
type PricingEngine interface {
	PriceSlot(court *domain.Court, date time.Time, timeFrom, timeTo types.TimeString) (decimal.Decimal, error)
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
