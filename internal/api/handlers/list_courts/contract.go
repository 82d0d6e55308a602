package list_courts

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
)

type CourtRepository interface {
	List(ctx context.Context) ([]*domain.Court, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
