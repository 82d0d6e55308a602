// Package sync is the background consumer of the booking outbox. It
// delivers notifications and mirrors confirmed bookings into the
// external facility system.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/notifier"
)

// Handlers processes booking events read from the outbox.
type Handlers struct {
	notifier        notifier.Notifier
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	hudleClient     HudleClient // nil disables mirroring
	log             Logger
}

// NewHandlers creates the event handlers.
func NewHandlers(
	n notifier.Notifier,
	courtRepo CourtRepository,
	reservationRepo ReservationRepository,
	hudleClient HudleClient,
	log Logger,
) *Handlers {
	return &Handlers{
		notifier:        n,
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		hudleClient:     hudleClient,
		log:             log,
	}
}

// HandleBookingPending notifies the customer that the request awaits an
// administrator. Nothing is mirrored: the slot is not externally owned
// until the booking is confirmed.
func (h *Handlers) HandleBookingPending(msg *message.Message) error {
	var evt events.BookingPending
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("sync: unmarshal pending event %s: %w", msg.UUID, err)
	}

	h.log.Info("sync: booking #%d pending, notifying %s", evt.ReservationID, evt.CustomerEmail)

	if err := h.notifier.BookingPending(msg.Context(), evt); err != nil {
		return fmt.Errorf("sync: notify pending booking #%d: %w", evt.ReservationID, err)
	}

	return nil
}

// HandleBookingConfirmed notifies the customer and mirrors the booking
// into the external facility system. Notification failures are retried
// through the router; mirroring is best effort and never fails the
// message.
func (h *Handlers) HandleBookingConfirmed(msg *message.Message) error {
	var evt events.BookingConfirmed
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("sync: unmarshal confirmed event %s: %w", msg.UUID, err)
	}

	h.log.Info("sync: booking #%d confirmed, notifying %s", evt.ReservationID, evt.CustomerEmail)

	if err := h.notifier.BookingConfirmed(msg.Context(), evt); err != nil {
		return fmt.Errorf("sync: notify confirmed booking #%d: %w", evt.ReservationID, err)
	}

	h.mirrorBooking(msg, evt)
	return nil
}

// HandleBookingCancelled notifies the customer of the cancellation.
func (h *Handlers) HandleBookingCancelled(msg *message.Message) error {
	var evt events.BookingCancelled
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("sync: unmarshal cancelled event %s: %w", msg.UUID, err)
	}

	h.log.Info("sync: booking #%d cancelled, notifying %s", evt.ReservationID, evt.CustomerEmail)

	if err := h.notifier.BookingCancelled(msg.Context(), evt); err != nil {
		return fmt.Errorf("sync: notify cancelled booking #%d: %w", evt.ReservationID, err)
	}

	return nil
}

// mirrorBooking pushes the confirmed booking to the external system when
// the court's schedule is externally reconciled. Errors are logged, not
// returned: the local booking is already committed and the next schedule
// reconciliation covers a missed mirror.
func (h *Handlers) mirrorBooking(msg *message.Message, evt events.BookingConfirmed) {
	if h.hudleClient == nil {
		return
	}

	ctx := msg.Context()

	court, err := h.courtRepo.GetByID(ctx, evt.CourtID)
	if err != nil {
		h.log.Error("sync: mirror booking #%d: failed to load court %d: %v", evt.ReservationID, evt.CourtID, err)
		return
	}
	if !court.ExternallyReconciled() {
		return
	}

	res, err := h.reservationRepo.GetByID(ctx, evt.ReservationID)
	if err != nil {
		h.log.Error("sync: mirror booking #%d: failed to load reservation: %v", evt.ReservationID, err)
		return
	}

	date, err := time.Parse(domain.DateFormat, evt.Date)
	if err != nil {
		h.log.Error("sync: mirror booking #%d: bad date %q: %v", evt.ReservationID, evt.Date, err)
		return
	}

	err = h.hudleClient.CreateBooking(ctx, hudle.BookingRequest{
		FacilityID:    *court.HudleFacilityID,
		ActivityID:    *court.HudleActivityID,
		Date:          date,
		TimeFrom:      res.TimeFrom,
		TimeTo:        res.TimeTo,
		CustomerName:  res.Customer.Name,
		CustomerEmail: res.Customer.Email,
		CustomerPhone: res.Customer.Phone,
		Note:          fmt.Sprintf("booking #%d", evt.ReservationID),
	})
	if err != nil {
		h.log.Error("sync: mirror booking #%d to facility %s failed: %v",
			evt.ReservationID, *court.HudleFacilityID, err)
		return
	}

	h.log.Info("sync: booking #%d mirrored to facility %s", evt.ReservationID, *court.HudleFacilityID)
}

// Worker runs the outbox consumer until its context is cancelled.
type Worker struct {
	router *message.Router
}

// NewWorker builds the message router over the outbox subscriber.
func NewWorker(
	subscriber message.Subscriber,
	handlers *Handlers,
	wmLogger watermill.LoggerAdapter,
) (*Worker, error) {
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("sync: failed to create router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		Logger:          wmLogger,
	}.Middleware)

	router.AddNoPublisherHandler(
		"booking_pending",
		events.TopicBookingPending,
		subscriber,
		handlers.HandleBookingPending,
	)
	router.AddNoPublisherHandler(
		"booking_confirmed",
		events.TopicBookingConfirmed,
		subscriber,
		handlers.HandleBookingConfirmed,
	)
	router.AddNoPublisherHandler(
		"booking_cancelled",
		events.TopicBookingCancelled,
		subscriber,
		handlers.HandleBookingCancelled,
	)

	return &Worker{router: router}, nil
}

// Run blocks consuming events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.router.Run(ctx)
}

// Close stops the router.
func (w *Worker) Close() error {
	return w.router.Close()
}
