package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddonPricingMode says how an add-on contributes to the booking total.
type AddonPricingMode string

const (
	// AddonPerBooking adds a flat amount once per reservation.
	AddonPerBooking AddonPricingMode = "per_booking"
	// AddonPerHour multiplies the unit price by the booked duration in hours.
	AddonPerHour AddonPricingMode = "per_hour"
)

// Valid reports whether m is a known pricing mode.
func (m AddonPricingMode) Valid() bool {
	return m == AddonPerBooking || m == AddonPerHour
}

// Addon is a catalog entry (floodlights, equipment rental, ...) that can be
// attached to a booking. The catalog is administered elsewhere.
type Addon struct {
	ID          int64
	Name        string
	UnitPrice   decimal.Decimal
	PricingMode AddonPricingMode
	Active      bool
	CreatedAt   time.Time
}

// AddonSelection is an add-on attached to a reservation with its name and
// price snapshotted at booking time, so later catalog edits never alter a
// historical invoice.
type AddonSelection struct {
	ID            int64
	ReservationID int64
	AddonID       int64
	Name          string
	UnitPrice     decimal.Decimal
	PricingMode   AddonPricingMode
	Amount        decimal.Decimal // computed contribution to the total
}
