package get_availability

import (
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// Request asks for one court's slot grid on one date.
type Request struct {
	CourtID int64
	Date    time.Time
}

// Response is the computed slot grid plus court metadata for the booking UI.
// OpenTime and CloseTime come from that weekday's schedule entry.
type Response struct {
	CourtID             int64
	CourtName           string
	Date                time.Time
	SlotDurationMinutes int
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	Closed              bool // court not open that weekday
	Slots               []domain.Slot
}
