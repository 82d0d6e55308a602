package sync

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
)

// CourtRepository resolves the court of a booking event.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ReservationRepository resolves the reservation of a booking event.
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}

// HudleClient mirrors confirmed bookings into the external facility
// system.
type HudleClient interface {
	CreateBooking(ctx context.Context, req hudle.BookingRequest) error
}

// Logger is the narrow logging surface of the worker.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
