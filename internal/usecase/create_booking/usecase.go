package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/addon"
	courtRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/court"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/reservation"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/pricing"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
)

// UseCase commits a booking. The no-double-booking invariant is enforced
// three ways: a row-locked overlap re-check inside a serializable
// transaction, the store's exclusion constraint as backstop, and a
// fail-closed external re-verification for reconciled courts before the
// transaction opens (locks are never held across network I/O).
type UseCase struct {
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	addonRepo       AddonRepository
	historyRepo     HistoryRepository
	hudleClient     HudleClient
	pricing         PricingEngine
	publisher       EventPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	confirmationMode domain.ConfirmationMode
	currency         string
}

// NewUseCase creates the booking commit use case. hudleClient may be nil
// when no external facility system is configured.
func NewUseCase(
	courtRepository CourtRepository,
	reservationRepo ReservationRepository,
	addonRepo AddonRepository,
	historyRepo HistoryRepository,
	hudleClient HudleClient,
	pricingEngine PricingEngine,
	publisher EventPublisher,
	txManager TransactionManager,
	confirmationMode domain.ConfirmationMode,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:        courtRepository,
		reservationRepo:  reservationRepo,
		addonRepo:        addonRepo,
		historyRepo:      historyRepo,
		hudleClient:      hudleClient,
		pricing:          pricingEngine,
		publisher:        publisher,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		confirmationMode: confirmationMode,
		currency:         currency,
	}
}

// WithTimeProvider overrides the time source. Used by tests.
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute runs the booking commit workflow.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: court=%d, date=%s, time=%s-%s",
		req.CourtID, req.Date.Format(domain.DateFormat), req.TimeFrom, req.TimeTo)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	if err := validateSchedule(court, req, now); err != nil {
		uc.logger.Warn("CreateBooking: schedule validation failed: %v", err)
		return nil, err
	}

	courtAmount, totalAmount, selections, err := uc.priceBooking(ctx, court, req)
	if err != nil {
		return nil, err
	}

	// Fail-closed external re-check, before the transaction so no row
	// locks are held across network I/O.
	if err := uc.verifyExternalSchedule(ctx, court, req); err != nil {
		return nil, err
	}

	initialStatus := domain.StatusPending
	if uc.confirmationMode == domain.ConfirmAuto {
		initialStatus = domain.StatusConfirmed
	}

	var result *domain.Reservation

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Row-locked re-check: two concurrent commits for overlapping
		// ranges serialize here, the loser sees the winner's row.
		existing, err := uc.reservationRepo.Find(txCtx, domain.ReservationFilter{
			CourtID:     ptr.Ptr(req.CourtID),
			Date:        ptr.Ptr(req.Date),
			OnlyHolding: true,
			ForUpdate:   true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		for _, res := range existing {
			if domain.Overlaps(req.TimeFrom, req.TimeTo, res.TimeFrom, res.TimeTo) {
				uc.logger.Warn("CreateBooking: range %s-%s overlaps reservation id=%d",
					req.TimeFrom, req.TimeTo, res.ID)
				return ErrSlotNotAvailable
			}
		}

		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			CourtID:  req.CourtID,
			Date:     req.Date,
			TimeFrom: req.TimeFrom,
			TimeTo:   req.TimeTo,
			Status:   initialStatus,
			Customer: domain.Customer{
				Name:   req.CustomerName,
				Email:  req.CustomerEmail,
				Phone:  req.CustomerPhone,
				UserID: req.UserID,
			},
			CourtAmount:   courtAmount,
			TotalAmount:   totalAmount,
			PaymentStatus: domain.PaymentPending,
		})
		if err != nil {
			if errors.Is(err, reservation.ErrSlotConflict) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		for i := range selections {
			selections[i].ReservationID = created.ID
		}
		if err := uc.addonRepo.CreateSelections(txCtx, selections); err != nil {
			uc.logger.Error("CreateBooking: failed to create addon selections: %v", err)
			return fmt.Errorf("%w: failed to create addon selections: %v", ErrInternal, err)
		}

		if err := uc.historyRepo.Append(txCtx, &domain.SlotHistoryEntry{
			ReservationID: created.ID,
			CourtID:       created.CourtID,
			Date:          created.Date,
			TimeFrom:      created.TimeFrom,
			TimeTo:        created.TimeTo,
			Status:        domain.HistoryBooked,
			ActorUserID:   req.UserID,
		}); err != nil {
			uc.logger.Error("CreateBooking: failed to append history: %v", err)
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		if initialStatus == domain.StatusConfirmed {
			evt := events.BookingConfirmed{
				ReservationID: created.ID,
				CourtID:       court.ID,
				CourtName:     court.Name,
				Date:          created.Date.Format(domain.DateFormat),
				TimeFrom:      created.TimeFrom.String(),
				TimeTo:        created.TimeTo.String(),
				CustomerName:  created.Customer.Name,
				CustomerEmail: created.Customer.Email,
				TotalAmount:   created.TotalAmount.Round(2).String(),
				Currency:      uc.currency,
				OccurredAt:    now,
			}
			if err := uc.publisher.Publish(txCtx, events.TopicBookingConfirmed, evt); err != nil {
				uc.logger.Error("CreateBooking: failed to publish confirmed event: %v", err)
				return fmt.Errorf("%w: failed to publish confirmed event: %v", ErrInternal, err)
			}
		}

		// Manual mode: the customer is told the request awaits an
		// administrator. Payment mode sends nothing until the payment
		// settles.
		if uc.confirmationMode == domain.ConfirmManual {
			evt := events.BookingPending{
				ReservationID: created.ID,
				CourtID:       court.ID,
				CourtName:     court.Name,
				Date:          created.Date.Format(domain.DateFormat),
				TimeFrom:      created.TimeFrom.String(),
				TimeTo:        created.TimeTo.String(),
				CustomerName:  created.Customer.Name,
				CustomerEmail: created.Customer.Email,
				TotalAmount:   created.TotalAmount.Round(2).String(),
				Currency:      uc.currency,
				OccurredAt:    now,
			}
			if err := uc.publisher.Publish(txCtx, events.TopicBookingPending, evt); err != nil {
				uc.logger.Error("CreateBooking: failed to publish pending event: %v", err)
				return fmt.Errorf("%w: failed to publish pending event: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created reservation id=%d status=%s", result.ID, result.Status)

	return &Response{
		ID:            result.ID,
		CourtID:       result.CourtID,
		Date:          result.Date,
		TimeFrom:      result.TimeFrom,
		TimeTo:        result.TimeTo,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		CourtAmount:   result.CourtAmount.Round(2),
		TotalAmount:   result.TotalAmount.Round(2),
		NextStep:      uc.nextStep(),
		CreatedAt:     result.CreatedAt,
	}, nil
}

// priceBooking computes the court charge, the add-on snapshots and the
// total.
func (uc *UseCase) priceBooking(ctx context.Context, court *domain.Court, req *Request) (courtAmount, totalAmount decimal.Decimal, selections []domain.AddonSelection, err error) {
	courtAmount, err = uc.pricing.PriceSlot(court, req.Date, req.TimeFrom, req.TimeTo)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to price slot: %v", err)
		return courtAmount, totalAmount, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	totalAmount = courtAmount

	if len(req.AddonIDs) == 0 {
		return courtAmount, totalAmount, nil, nil
	}

	addons, err := uc.addonRepo.GetByIDs(ctx, req.AddonIDs)
	if err != nil {
		if errors.Is(err, addon.ErrAddonNotFound) {
			uc.logger.Warn("CreateBooking: addon lookup failed: %v", err)
			return courtAmount, totalAmount, nil, ErrAddonNotFound
		}
		uc.logger.Error("CreateBooking: failed to get addons: %v", err)
		return courtAmount, totalAmount, nil, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}

	hours, err := pricing.DurationHours(req.TimeFrom, req.TimeTo)
	if err != nil {
		return courtAmount, totalAmount, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	selections = make([]domain.AddonSelection, 0, len(addons))
	for _, a := range addons {
		amount := uc.pricing.PriceAddon(a, hours)
		selections = append(selections, domain.AddonSelection{
			AddonID:     a.ID,
			Name:        a.Name,
			UnitPrice:   a.UnitPrice,
			PricingMode: a.PricingMode,
			Amount:      amount,
		})
		totalAmount = totalAmount.Add(amount)
	}

	return courtAmount, totalAmount, selections, nil
}

// verifyExternalSchedule is the commit-time fail-closed check against the
// external facility system.
func (uc *UseCase) verifyExternalSchedule(ctx context.Context, court *domain.Court, req *Request) error {
	if uc.hudleClient == nil || !court.ExternallyReconciled() {
		return nil
	}

	free, err := uc.hudleClient.IsRangeFree(ctx, *court.HudleFacilityID, *court.HudleActivityID,
		req.Date, req.TimeFrom, req.TimeTo)
	if err != nil {
		uc.logger.Error("CreateBooking: external schedule check failed for court id=%d, rejecting: %v",
			court.ID, err)
		return fmt.Errorf("%w: %v", ErrExternalCheckFailed, err)
	}
	if !free {
		uc.logger.Warn("CreateBooking: range %s-%s busy in external system for court id=%d",
			req.TimeFrom, req.TimeTo, court.ID)
		return ErrSlotNotAvailable
	}

	return nil
}

func (uc *UseCase) nextStep() NextStep {
	switch uc.confirmationMode {
	case domain.ConfirmManual:
		return NextStepAwaitConfirmation
	case domain.ConfirmOnPayment:
		return NextStepPayment
	default:
		return NextStepNone
	}
}
