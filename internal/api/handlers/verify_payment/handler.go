package verify_payment

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
	msgInvalidBody      = "invalid request body"
	msgNotFound         = "booking not found"
	msgMissingUserID    = "missing user id"
	msgForbidden        = "access denied"
	msgBadSignature     = "payment signature verification failed"
	msgNotCaptured      = "payment is not captured"
	msgOrderMismatch    = "order does not belong to this booking"
	msgAmountMismatch   = "captured amount does not match booking total"
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

// Handle POST /api/v1/bookings/{bookingId}/payment/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	actor := models.Actor{UserID: userID, Admin: middleware.IsAdmin(r.Context())}

	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), req.ToServiceRequest(bookingID), actor)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, payments.ErrSignatureInvalid):
			h.logger.Error("POST /bookings/{id}/payment/verify - Bad signature: booking_id=%d, payment_id=%s",
				bookingID, req.PaymentID)
			handlers.RespondUnprocessable(w, msgBadSignature)

		case errors.Is(err, payments.ErrOrderMismatch):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Order mismatch: booking_id=%d, order_id=%s",
				bookingID, req.OrderID)
			handlers.RespondConflict(w, msgOrderMismatch)

		case errors.Is(err, payments.ErrPaymentNotCaptured):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Not captured: booking_id=%d, payment_id=%s",
				bookingID, req.PaymentID)
			handlers.RespondUnprocessable(w, msgNotCaptured)

		case errors.Is(err, payments.ErrAmountMismatch):
			h.logger.Error("POST /bookings/{id}/payment/verify - Amount mismatch: booking_id=%d, payment_id=%s",
				bookingID, req.PaymentID)
			handlers.RespondConflict(w, msgAmountMismatch)

		case errors.Is(err, payments.ErrPaymentsDisabled):
			h.logger.Warn("POST /bookings/{id}/payment/verify - Payments disabled")
			handlers.RespondUnprocessable(w, msgPaymentsDisabled)

		default:
			h.logger.Error("POST /bookings/{id}/payment/verify - Failed to verify: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/verify - Payment verified: booking_id=%d, payment_id=%s",
		bookingID, result.PaymentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
