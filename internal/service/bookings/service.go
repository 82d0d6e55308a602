package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	reservationRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/reservation"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/bookings/models"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
)

// Service covers the read, cancel and confirm operations over committed
// reservations. Creation goes through the commit use case.
type Service struct {
	reservationRepo ReservationRepository
	courtRepo       CourtRepository
	addonRepo       AddonRepository
	historyRepo     HistoryRepository
	publisher       EventPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	cancellationLeadHours int
	refundPolicy          domain.RefundPolicy
	currency              string
}

// NewService creates the bookings service.
func NewService(
	reservationRepository ReservationRepository,
	courtRepository CourtRepository,
	addonRepository AddonRepository,
	historyRepository HistoryRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	cancellationLeadHours int,
	refundPolicy domain.RefundPolicy,
	currency string,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:       reservationRepository,
		courtRepo:             courtRepository,
		addonRepo:             addonRepository,
		historyRepo:           historyRepository,
		publisher:             publisher,
		txManager:             txManager,
		timeProvider:          &RealTimeProvider{},
		logger:                logger,
		cancellationLeadHours: cancellationLeadHours,
		refundPolicy:          refundPolicy,
		currency:              currency,
	}
}

// WithTimeProvider overrides the time source. Used by tests.
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID fetches one booking. Customers may only see their own bookings;
// administrators see all.
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	res, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(res, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	addons, err := s.addonRepo.GetByReservationID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get addons for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}
	res.Addons = addons

	return models.FromDomainReservation(res), nil
}

// GetUserBookings returns one user's booking history, optionally filtered
// by status, newest first.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", req.UserID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	filter := domain.ReservationFilter{UserID: ptr.Ptr(req.UserID)}
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	list, err := s.reservationRepo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list), nil
}

// Cancel cancels a booking. Owners may cancel up to the configured lead
// time before the start; administrators may cancel any time. Cancelling a
// paid booking applies the refund policy label; actual refund execution is
// the payment collaborator's concern.
func (s *Service) Cancel(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d by user=%d (%s)", id, actor.UserID, actor.Label())

	res, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(res, actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d in status %s cannot be cancelled", id, res.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, res.Status)
	}

	now := s.timeProvider.Now()
	if !actor.Admin {
		// The deadline instant itself is still inside the window.
		deadline := res.StartsAt().Add(-time.Duration(s.cancellationLeadHours) * time.Hour)
		if now.After(deadline) {
			s.logger.Warn("Cancel: booking id=%d past the %dh cancellation window", id, s.cancellationLeadHours)
			return nil, fmt.Errorf("%w: cancellations close %d hours before start",
				ErrCancellationTooLate, s.cancellationLeadHours)
		}
	}

	refundLabel := res.PaymentStatus
	if res.PaymentStatus == domain.PaymentCompleted {
		refundLabel = s.refundPolicy.PaymentStatusOnCancel()
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		if refundLabel != res.PaymentStatus {
			if err := s.reservationRepo.SetPaymentStatus(txCtx, id, refundLabel); err != nil {
				return fmt.Errorf("%w: failed to set payment status: %v", ErrInternal, err)
			}
		}

		if err := s.historyRepo.Append(txCtx, &domain.SlotHistoryEntry{
			ReservationID: res.ID,
			CourtID:       res.CourtID,
			Date:          res.Date,
			TimeFrom:      res.TimeFrom,
			TimeTo:        res.TimeTo,
			Status:        domain.HistoryCancelled,
			ActorUserID:   ptr.Ptr(actor.UserID),
		}); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		evt := events.BookingCancelled{
			ReservationID: res.ID,
			CourtID:       res.CourtID,
			Date:          res.Date.Format(domain.DateFormat),
			TimeFrom:      res.TimeFrom.String(),
			TimeTo:        res.TimeTo.String(),
			CustomerEmail: res.Customer.Email,
			CancelledBy:   actor.Label(),
			RefundOutcome: string(refundLabel),
			OccurredAt:    now,
		}
		if err := s.publisher.Publish(txCtx, events.TopicBookingCancelled, evt); err != nil {
			return fmt.Errorf("%w: failed to publish cancelled event: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", id, err)
		return nil, err
	}

	res.Status = domain.StatusCancelled
	res.PaymentStatus = refundLabel

	s.logger.Info("Cancel: booking id=%d cancelled, payment status %s", id, refundLabel)
	return models.FromDomainReservation(res), nil
}

// Confirm is the administrator's manual confirmation of a pending booking.
func (s *Service) Confirm(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: booking id=%d by user=%d", id, actor.UserID)

	if !actor.Admin {
		s.logger.Warn("Confirm: user=%d is not an administrator", actor.UserID)
		return nil, ErrAccessDenied
	}

	res, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.Status != domain.StatusPending {
		s.logger.Warn("Confirm: booking id=%d in status %s cannot be confirmed", id, res.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotConfirm, res.Status)
	}

	court, err := s.courtRepo.GetByID(ctx, res.CourtID)
	if err != nil {
		s.logger.Error("Confirm: failed to get court id=%d: %v", res.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.UpdateStatus(txCtx, id, domain.StatusConfirmed); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		evt := events.BookingConfirmed{
			ReservationID: res.ID,
			CourtID:       court.ID,
			CourtName:     court.Name,
			Date:          res.Date.Format(domain.DateFormat),
			TimeFrom:      res.TimeFrom.String(),
			TimeTo:        res.TimeTo.String(),
			CustomerName:  res.Customer.Name,
			CustomerEmail: res.Customer.Email,
			TotalAmount:   res.TotalAmount.Round(2).String(),
			Currency:      s.currency,
			OccurredAt:    s.timeProvider.Now(),
		}
		if err := s.publisher.Publish(txCtx, events.TopicBookingConfirmed, evt); err != nil {
			return fmt.Errorf("%w: failed to publish confirmed event: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Confirm: transaction failed for booking id=%d: %v", id, err)
		return nil, err
	}

	res.Status = domain.StatusConfirmed

	s.logger.Info("Confirm: booking id=%d confirmed", id)
	return models.FromDomainReservation(res), nil
}

func (s *Service) getReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return res, nil
}

// checkAccess allows the owner or an administrator. Guest bookings (no
// owning account) are only reachable by administrators.
func (s *Service) checkAccess(res *domain.Reservation, actor models.Actor) error {
	if actor.Admin {
		return nil
	}
	if res.OwnedBy(actor.UserID) {
		return nil
	}
	return ErrAccessDenied
}
