package hudle

import (
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// RemoteSlot is one slot of the external facility's schedule, reduced to a
// local wall-clock window. A slot is free only when the facility marks it
// available and reports remaining inventory.
type RemoteSlot struct {
	TimeFrom  types.TimeString
	TimeTo    types.TimeString
	Available bool
	Inventory int
}

// Free reports whether the external system would accept a booking in this
// window.
func (s RemoteSlot) Free() bool {
	return s.Available && s.Inventory > 0
}

// slotsResponse is the wire shape of the slots-by-date endpoint. Times are
// full timestamps; only the hour:minute part is meaningful locally.
type slotsResponse struct {
	Slots []struct {
		StartTime      string `json:"start_time"`
		EndTime        string `json:"end_time"`
		IsAvailable    bool   `json:"is_available"`
		InventoryCount int    `json:"inventory_count"`
	} `json:"slots"`
}

// BookingRequest describes a confirmed local reservation to be mirrored
// into the external system.
type BookingRequest struct {
	FacilityID    string
	ActivityID    string
	Date          time.Time
	TimeFrom      types.TimeString
	TimeTo        types.TimeString
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Note          string
}

// createBookingPayload is the wire shape of the create-booking endpoint.
// The booked range is broken into increments of the external system's own
// slot granularity.
type createBookingPayload struct {
	ActivityID string        `json:"activity_id"`
	Slots      []slotPayload `json:"slots"`
	Customer   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Note string `json:"note,omitempty"`
}

type slotPayload struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type errorResponse struct {
	Message string `json:"message"`
}
