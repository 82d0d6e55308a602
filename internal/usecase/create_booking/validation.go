package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.TimeFrom.Validate(); err != nil {
		return fmt.Errorf("%w: timeFrom: %v", ErrInvalidInput, err)
	}
	if err := req.TimeTo.Validate(); err != nil {
		return fmt.Errorf("%w: timeTo: %v", ErrInvalidInput, err)
	}
	if !req.TimeFrom.IsBefore(req.TimeTo) {
		return fmt.Errorf("%w: timeFrom must be before timeTo", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.AddonIDs))
	for _, id := range req.AddonIDs {
		if id <= 0 {
			return fmt.Errorf("%w: addon id must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate addon id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateSchedule checks the requested range against the court's opening
// hours and the current time.
func validateSchedule(court *domain.Court, req *Request, now time.Time) error {
	day := court.Schedule.ForDate(req.Date)
	if !day.IsOpen {
		return ErrCourtClosed
	}

	if req.TimeFrom.IsBefore(day.OpenTime) || day.CloseTime.IsBefore(req.TimeTo) {
		return fmt.Errorf("%w: range %s-%s is outside opening hours %s-%s",
			ErrInvalidInput, req.TimeFrom, req.TimeTo, day.OpenTime, day.CloseTime)
	}

	// No bookings in the past.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reqDay := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, now.Location())
	if reqDay.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}
	if reqDay.Equal(today) && !types.NewTimeString(now).IsBefore(req.TimeFrom) {
		return fmt.Errorf("%w: start time has already passed", ErrInvalidInput)
	}

	return nil
}
