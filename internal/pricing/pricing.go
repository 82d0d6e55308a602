// Package pricing computes slot and add-on prices. All arithmetic is done
// in decimal; amounts are rounded to two places only at the persistence and
// response boundaries, never between calculation steps.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

var (
	// ErrInvalidRange is returned when time_to is not after time_from.
	ErrInvalidRange = errors.New("pricing: invalid time range")
)

var sixty = decimal.NewFromInt(60)

// Engine prices slots and add-ons for a court.
type Engine struct{}

// NewEngine creates a pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// DurationHours converts a [from, to) range into hours with fractional
// minute precision (90 minutes -> 1.5).
func DurationHours(from, to types.TimeString) (decimal.Decimal, error) {
	minutes, err := from.MinutesUntil(to)
	if err != nil {
		return decimal.Zero, err
	}
	if minutes <= 0 {
		return decimal.Zero, ErrInvalidRange
	}
	return decimal.NewFromInt(int64(minutes)).Div(sixty), nil
}

// HourlyRate resolves the unit rate for a slot starting at timeFrom on
// date. Precedence, first match wins: peak window > weekend > base.
func (e *Engine) HourlyRate(court *domain.Court, date time.Time, timeFrom types.TimeString) decimal.Decimal {
	if court.HasPeakPricing() && inPeakWindow(court, timeFrom) {
		return *court.PeakPricePerHour
	}

	if court.WeekendPricePerHour != nil && isWeekend(date) {
		return *court.WeekendPricePerHour
	}

	return court.BasePricePerHour
}

// PriceSlot returns the charge for booking [timeFrom, timeTo) on the court:
// resolved hourly rate times the duration in hours.
func (e *Engine) PriceSlot(court *domain.Court, date time.Time, timeFrom, timeTo types.TimeString) (decimal.Decimal, error) {
	hours, err := DurationHours(timeFrom, timeTo)
	if err != nil {
		return decimal.Zero, err
	}
	return e.HourlyRate(court, date, timeFrom).Mul(hours), nil
}

// PriceAddon returns the add-on's contribution to the booking total.
func (e *Engine) PriceAddon(addon *domain.Addon, durationHours decimal.Decimal) decimal.Decimal {
	if addon.PricingMode == domain.AddonPerHour {
		return addon.UnitPrice.Mul(durationHours)
	}
	return addon.UnitPrice
}

// inPeakWindow applies the half-open overlap convention to the peak
// window: a slot starting exactly at PeakEnd is not peak.
func inPeakWindow(court *domain.Court, timeFrom types.TimeString) bool {
	return !timeFrom.IsBefore(court.PeakStart) && timeFrom.IsBefore(court.PeakEnd)
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
