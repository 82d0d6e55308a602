package domain

import (
	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// Slot is a derived bookable time window on a single date for a single
// court. Slots are regenerated on every availability query and never
// persisted or cached.
type Slot struct {
	From      types.TimeString
	To        types.TimeString
	Available bool
	Price     decimal.Decimal
}

// Overlaps is the canonical half-open interval overlap rule used by both
// the availability calculator and the booking commit path:
// [aFrom, aTo) overlaps [bFrom, bTo) iff aFrom < bTo && bFrom < aTo.
// Ranges that merely touch at a boundary do not overlap.
func Overlaps(aFrom, aTo, bFrom, bTo types.TimeString) bool {
	return aFrom.IsBefore(bTo) && bFrom.IsBefore(aTo)
}
