package confirm_booking

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
