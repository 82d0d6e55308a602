package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	courtRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/court"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
)

// UseCase computes the bookable slot grid for a court on a date. Slots are
// derived on every call from the schedule store, the current time and,
// for externally reconciled courts, the facility system's schedule.
type UseCase struct {
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	hudleClient     HudleClient
	pricing         PricingEngine
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase creates the availability use case. hudleClient may be nil when
// no external facility system is configured.
func NewUseCase(
	courtRepository CourtRepository,
	reservationRepo ReservationRepository,
	hudleClient HudleClient,
	pricing PricingEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:       courtRepository,
		reservationRepo: reservationRepo,
		hudleClient:     hudleClient,
		pricing:         pricing,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider overrides the time source. Used by tests.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute returns the slot grid for the requested court and date.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailability: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailability: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	resp := &Response{
		CourtID:             court.ID,
		CourtName:           court.Name,
		Date:                req.Date,
		SlotDurationMinutes: court.SlotDurationMinutes,
		Slots:               []domain.Slot{},
	}

	// A weekday with no open hours is a closed day, not an error.
	day := court.Schedule.ForDate(req.Date)
	resp.OpenTime = day.OpenTime
	resp.CloseTime = day.CloseTime
	if !day.IsOpen {
		uc.logger.Info("GetAvailability: court id=%d closed on %s", court.ID, req.Date.Format(domain.DateFormat))
		resp.Closed = true
		return resp, nil
	}

	slots, err := generateGrid(day, court.SlotDurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate grid for court id=%d: %v", court.ID, err)
		return nil, fmt.Errorf("%w: failed to generate slot grid: %v", ErrInternal, err)
	}

	allPast := dateInPast(req.Date, now)

	// Past dates still return the full grid, just with nothing bookable.
	if !allPast {
		reservations, err := uc.reservationRepo.Find(ctx, domain.ReservationFilter{
			CourtID:     ptr.Ptr(req.CourtID),
			Date:        ptr.Ptr(req.Date),
			OnlyHolding: true,
		})
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get reservations: %v", err)
			return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}
		applyReservations(slots, reservations)

		uc.mergeExternalSchedule(ctx, court, req, slots)
	}

	applyCurrentTime(slots, req.Date, now, allPast)

	for i := range slots {
		price, err := uc.pricing.PriceSlot(court, req.Date, slots[i].From, slots[i].To)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to price slot %s-%s: %v", slots[i].From, slots[i].To, err)
			return nil, fmt.Errorf("%w: failed to price slot: %v", ErrInternal, err)
		}
		slots[i].Price = price
	}

	resp.Slots = slots

	uc.logger.Info("GetAvailability: %d slots for court=%d date=%s",
		len(slots), court.ID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

// mergeExternalSchedule subtracts the facility system's busy windows.
// This path fails open: an unreachable or misbehaving facility system only
// degrades the result to local data, it never fails the request.
func (uc *UseCase) mergeExternalSchedule(ctx context.Context, court *domain.Court, req *Request, slots []domain.Slot) {
	if uc.hudleClient == nil || !court.ExternallyReconciled() {
		return
	}

	remote, err := uc.hudleClient.GetSlots(ctx, *court.HudleFacilityID, *court.HudleActivityID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: external schedule unavailable for court id=%d, using local data only: %v",
			court.ID, err)
		return
	}

	applyExternalSlots(slots, remote)
}
