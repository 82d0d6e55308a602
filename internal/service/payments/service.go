package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	paymentRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/payment"
	reservationRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/reservation"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
)

var minorUnitsPerUnit = decimal.NewFromInt(100)

// Service drives the prepaid booking flow: opening a gateway order for a
// reservation and verifying the checkout result. Verification is
// idempotent on the gateway payment id.
type Service struct {
	reservationRepo ReservationRepository
	courtRepo       CourtRepository
	paymentRepo     PaymentRepository
	gateway         Gateway
	publisher       EventPublisher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	keyID    string
	currency string
}

// NewService creates the payments service. A nil gateway disables the
// payment operations.
func NewService(
	reservationRepository ReservationRepository,
	courtRepository CourtRepository,
	paymentRepository PaymentRepository,
	gateway Gateway,
	publisher EventPublisher,
	txManager TransactionManager,
	keyID string,
	currency string,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepository,
		courtRepo:       courtRepository,
		paymentRepo:     paymentRepository,
		gateway:         gateway,
		publisher:       publisher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		keyID:           keyID,
		currency:        currency,
	}
}

// WithTimeProvider overrides the time source. Used by tests.
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// CreateOrder opens a gateway order for the reservation total and
// attaches the order id to the reservation. Repeated calls open fresh
// orders; only the latest one is attached.
func (s *Service) CreateOrder(ctx context.Context, reservationID int64, actor models.Actor) (*models.CreateOrderResponse, error) {
	s.logger.Info("CreateOrder: reservation id=%d by user=%d", reservationID, actor.UserID)

	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(res, actor); err != nil {
		s.logger.Warn("CreateOrder: access denied for user=%d to booking id=%d", actor.UserID, reservationID)
		return nil, err
	}

	if !res.IsPayable() {
		s.logger.Warn("CreateOrder: booking id=%d is not payable (status=%s, payment=%s)",
			reservationID, res.Status, res.PaymentStatus)
		return nil, fmt.Errorf("%w: status %s, payment %s", ErrNotPayable, res.Status, res.PaymentStatus)
	}

	amount, err := toMinorUnits(res.TotalAmount)
	if err != nil {
		s.logger.Error("CreateOrder: bad total %s for booking id=%d: %v", res.TotalAmount, reservationID, err)
		return nil, err
	}

	receipt := uuid.NewString()
	order, err := s.gateway.CreateOrder(ctx, amount, s.currency, receipt, map[string]string{
		"reservation_id": strconv.FormatInt(reservationID, 10),
	})
	if err != nil {
		s.logger.Error("CreateOrder: gateway error for booking id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: gateway order creation failed: %v", ErrInternal, err)
	}

	if err := s.reservationRepo.SetPaymentOrder(ctx, reservationID, order.ID); err != nil {
		s.logger.Error("CreateOrder: failed to attach order %s to booking id=%d: %v", order.ID, reservationID, err)
		return nil, fmt.Errorf("%w: failed to attach order: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOrder: order %s opened for booking id=%d, amount=%d", order.ID, reservationID, amount)
	return &models.CreateOrderResponse{
		ReservationID: reservationID,
		OrderID:       order.ID,
		Amount:        amount,
		Currency:      s.currency,
		KeyID:         s.keyID,
	}, nil
}

// errAlreadyRecorded aborts the verification transaction when a
// concurrent verify recorded the same payment first.
var errAlreadyRecorded = errors.New("payment already recorded")

// VerifyPayment validates the checkout callback and settles the
// reservation. The signature check runs before any gateway call; the
// gateway's payment object is the source of truth for capture state and
// amount. Replays of an already settled payment succeed without side
// effects.
func (s *Service) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest, actor models.Actor) (*models.VerifyPaymentResponse, error) {
	s.logger.Info("VerifyPayment: reservation id=%d payment=%s", req.ReservationID, req.PaymentID)

	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := validateVerifyRequest(req); err != nil {
		return nil, err
	}

	res, err := s.getReservation(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(res, actor); err != nil {
		s.logger.Warn("VerifyPayment: access denied for user=%d to booking id=%d", actor.UserID, req.ReservationID)
		return nil, err
	}

	// Replay of a settled payment is a success, not an error.
	if res.PaymentStatus == domain.PaymentCompleted {
		s.logger.Info("VerifyPayment: booking id=%d already settled", req.ReservationID)
		return settledResponse(res, req.PaymentID), nil
	}
	if _, err := s.paymentRepo.GetByPaymentID(ctx, req.PaymentID); err == nil {
		s.logger.Info("VerifyPayment: payment %s already recorded", req.PaymentID)
		return settledResponse(res, req.PaymentID), nil
	} else if !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
		return nil, fmt.Errorf("%w: payment lookup failed: %v", ErrInternal, err)
	}

	if res.PaymentOrderID == nil || *res.PaymentOrderID != req.OrderID {
		s.logger.Warn("VerifyPayment: order %s does not match booking id=%d", req.OrderID, req.ReservationID)
		return nil, ErrOrderMismatch
	}

	if err := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		s.logger.Error("VerifyPayment: signature check failed for booking id=%d payment=%s", req.ReservationID, req.PaymentID)
		return nil, ErrSignatureInvalid
	}

	payment, err := s.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		s.logger.Error("VerifyPayment: gateway fetch failed for payment=%s: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: gateway payment fetch failed: %v", ErrInternal, err)
	}

	if !payment.IsCaptured() {
		s.logger.Warn("VerifyPayment: payment %s not captured (status=%s)", req.PaymentID, payment.Status)
		return nil, fmt.Errorf("%w: gateway status %s", ErrPaymentNotCaptured, payment.Status)
	}

	expected, err := toMinorUnits(res.TotalAmount)
	if err != nil {
		return nil, err
	}
	if payment.Amount != expected {
		s.logger.Error("VerifyPayment: captured %d, expected %d for booking id=%d",
			payment.Amount, expected, req.ReservationID)
		return nil, fmt.Errorf("%w: captured %d, expected %d", ErrAmountMismatch, payment.Amount, expected)
	}

	wasPending := res.Status == domain.StatusPending

	court, err := s.courtRepo.GetByID(ctx, res.CourtID)
	if err != nil {
		s.logger.Error("VerifyPayment: failed to get court id=%d: %v", res.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := s.paymentRepo.Create(txCtx, &domain.PaymentRecord{
			ReservationID: res.ID,
			OrderID:       payment.OrderID,
			PaymentID:     payment.ID,
			Amount:        res.TotalAmount,
			Currency:      payment.Currency,
			Method:        payment.Method,
			Status:        payment.Status,
			RawPayload:    payment.Raw,
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrDuplicatePayment) {
				return errAlreadyRecorded
			}
			return fmt.Errorf("%w: failed to record payment: %v", ErrInternal, err)
		}

		if err := s.reservationRepo.CompletePayment(txCtx, res.ID, payment.ID, payment.Method); err != nil {
			return fmt.Errorf("%w: failed to settle booking: %v", ErrInternal, err)
		}

		if wasPending {
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
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyRecorded) {
			s.logger.Info("VerifyPayment: payment %s recorded concurrently", req.PaymentID)
			return settledResponse(res, req.PaymentID), nil
		}
		s.logger.Error("VerifyPayment: transaction failed for booking id=%d: %v", req.ReservationID, err)
		return nil, err
	}

	s.logger.Info("VerifyPayment: booking id=%d settled with payment %s", req.ReservationID, payment.ID)
	return &models.VerifyPaymentResponse{
		ReservationID: res.ID,
		Status:        string(domain.StatusConfirmed),
		PaymentStatus: string(domain.PaymentCompleted),
		PaymentID:     payment.ID,
	}, nil
}

// ListPayments returns the payment attempts of a reservation, oldest
// first.
func (s *Service) ListPayments(ctx context.Context, reservationID int64, actor models.Actor) (*models.PaymentListResponse, error) {
	s.logger.Info("ListPayments: reservation id=%d by user=%d", reservationID, actor.UserID)

	res, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(res, actor); err != nil {
		return nil, err
	}

	records, err := s.paymentRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		s.logger.Error("ListPayments: repository error for booking id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: ListPayments - repository error: %v", ErrInternal, err)
	}

	resp := &models.PaymentListResponse{
		ReservationID: reservationID,
		Payments:      make([]models.PaymentAttempt, 0, len(records)),
		Total:         len(records),
	}
	for _, rec := range records {
		resp.Payments = append(resp.Payments, models.PaymentAttempt{
			ID:        rec.ID,
			OrderID:   rec.OrderID,
			PaymentID: rec.PaymentID,
			Amount:    rec.Amount.Round(2).String(),
			Currency:  rec.Currency,
			Method:    rec.Method,
			Status:    rec.Status,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return resp, nil
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

func (s *Service) checkAccess(res *domain.Reservation, actor models.Actor) error {
	if actor.Admin {
		return nil
	}
	if res.OwnedBy(actor.UserID) {
		return nil
	}
	return ErrAccessDenied
}

func validateVerifyRequest(req *models.VerifyPaymentRequest) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return fmt.Errorf("%w: orderId, paymentId and signature are required", ErrInvalidInput)
	}
	return nil
}

// toMinorUnits converts a major-unit amount to whole minor units.
func toMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(minorUnitsPerUnit)
	if !minor.Round(0).Equal(minor) {
		return 0, fmt.Errorf("%w: %s does not convert to whole minor units", ErrInvalidAmount, amount)
	}
	units := minor.IntPart()
	if units <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return units, nil
}

func settledResponse(res *domain.Reservation, paymentID string) *models.VerifyPaymentResponse {
	if res.PaymentID != nil {
		paymentID = *res.PaymentID
	}
	return &models.VerifyPaymentResponse{
		ReservationID: res.ID,
		Status:        string(domain.StatusConfirmed),
		PaymentStatus: string(domain.PaymentCompleted),
		PaymentID:     paymentID,
	}
}
