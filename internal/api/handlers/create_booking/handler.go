package create_booking

import (
	"errors"
	"net/http"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/middleware"
	createBooking "github.com/ashish9800079/turf-booking-plugin-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidBody      = "invalid request body"
	msgInvalidDate      = "invalid date format, expected YYYY-MM-DD"
	msgMissingUserID    = "missing user id"
	msgCourtNotFound    = "court not found"
	msgCourtClosed      = "court is closed on the requested date"
	msgSlotNotAvailable = "requested time range is not available"
	msgAddonNotFound    = "requested add-on not found"
	msgExternalCheck    = "external schedule could not be verified, try again"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrCourtClosed):
			h.logger.Warn("POST /bookings - Court closed: court_id=%d, date=%s", req.CourtID, req.Date)
			handlers.RespondUnprocessable(w, msgCourtClosed)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot conflict: court_id=%d, date=%s, range=%s-%s",
				req.CourtID, req.Date, req.TimeFrom, req.TimeTo)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrAddonNotFound):
			h.logger.Warn("POST /bookings - Addon not found: user_id=%d, error=%v", userID, err)
			handlers.RespondUnprocessable(w, msgAddonNotFound)

		case errors.Is(err, createBooking.ErrExternalCheckFailed):
			h.logger.Error("POST /bookings - External check failed: court_id=%d, error=%v", req.CourtID, err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, handlers.ErrorResponse{Error: msgExternalCheck})

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, status=%s",
		result.ID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
