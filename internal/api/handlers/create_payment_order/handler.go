package create_payment_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/middleware"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgNotFound         = "booking not found"
	msgMissingUserID    = "missing user id"
	msgForbidden        = "access denied"
	msgNotPayable       = "booking is not payable"
	msgPaymentsDisabled = "payments are not enabled"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment/order
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/order - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/order - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	actor := models.Actor{UserID: userID, Admin: middleware.IsAdmin(r.Context())}

	order, err := h.service.CreateOrder(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/order - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment/order - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrNotPayable), errors.Is(err, payments.ErrInvalidAmount):
			h.logger.Warn("POST /bookings/{id}/payment/order - Not payable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, payments.ErrPaymentsDisabled):
			h.logger.Warn("POST /bookings/{id}/payment/order - Payments disabled")
			handlers.RespondUnprocessable(w, msgPaymentsDisabled)

		default:
			h.logger.Error("POST /bookings/{id}/payment/order - Failed to create order: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/order - Order created: booking_id=%d, order_id=%s", bookingID, order.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, order)
}
