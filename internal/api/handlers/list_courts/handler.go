package list_courts

import (
	"net/http"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers"
)

type Handler struct {
	repo   CourtRepository
	logger Logger
}

func NewHandler(repo CourtRepository, logger Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Handle GET /api/v1/courts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("GET /courts - Failed to list courts: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /courts - Courts listed: count=%d", len(courts))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCourts(courts))
}
