package domain

import (
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// HistoryStatus is the schedule event recorded in a history entry.
type HistoryStatus string

const (
	HistoryBooked    HistoryStatus = "booked"
	HistoryCancelled HistoryStatus = "cancelled"
)

// SlotHistoryEntry is one row of the append-only audit trail. Entries are
// written on every reservation creation and cancellation and are never
// mutated or deleted. They exist for audit and debugging, not for
// availability computation.
type SlotHistoryEntry struct {
	ID            int64
	ReservationID int64
	CourtID       int64
	Date          time.Time
	TimeFrom      types.TimeString
	TimeTo        types.TimeString
	Status        HistoryStatus
	ActorUserID   *int64
	CreatedAt     time.Time
}
