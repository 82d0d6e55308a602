package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// DaySchedule is a single weekday's opening hours for a court.
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WeekSchedule holds the per-weekday opening hours of a court.
type WeekSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule entry for the given weekday.
func (w WeekSchedule) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// ForDate returns the schedule entry for the date's weekday.
func (w WeekSchedule) ForDate(date time.Time) DaySchedule {
	return w.ForWeekday(date.Weekday())
}

// Court is a bookable playing surface and its booking configuration.
// Courts are administered elsewhere; the booking flow only reads them.
type Court struct {
	ID                  int64
	Name                string
	Schedule            WeekSchedule
	SlotDurationMinutes int
	BasePricePerHour    decimal.Decimal

	// Optional rate overrides. Peak takes precedence over weekend.
	WeekendPricePerHour *decimal.Decimal
	PeakPricePerHour    *decimal.Decimal
	PeakStart           types.TimeString
	PeakEnd             types.TimeString

	// Hudle identifiers. Both present means the court's schedule is also
	// managed in Hudle and must be reconciled before booking.
	HudleFacilityID *string
	HudleActivityID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternallyReconciled reports whether the court's schedule is also owned
// by the external facility system.
func (c *Court) ExternallyReconciled() bool {
	return c.HudleFacilityID != nil && *c.HudleFacilityID != "" &&
		c.HudleActivityID != nil && *c.HudleActivityID != ""
}

// HasPeakPricing reports whether a peak-hour rate and window are configured.
func (c *Court) HasPeakPricing() bool {
	return c.PeakPricePerHour != nil && !c.PeakStart.IsZero() && !c.PeakEnd.IsZero()
}

// Validate checks court configuration invariants at the load boundary so
// the availability and pricing logic never sees a malformed court.
func (c *Court) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("court %d: name is required", c.ID)
	}

	if !IsAllowedSlotDuration(c.SlotDurationMinutes) {
		return fmt.Errorf("court %d: slot duration %d is not one of %v",
			c.ID, c.SlotDurationMinutes, AllowedSlotDurations)
	}

	if c.BasePricePerHour.IsNegative() || c.BasePricePerHour.IsZero() {
		return fmt.Errorf("court %d: base price must be positive", c.ID)
	}

	days := []struct {
		name string
		d    DaySchedule
	}{
		{"monday", c.Schedule.Monday},
		{"tuesday", c.Schedule.Tuesday},
		{"wednesday", c.Schedule.Wednesday},
		{"thursday", c.Schedule.Thursday},
		{"friday", c.Schedule.Friday},
		{"saturday", c.Schedule.Saturday},
		{"sunday", c.Schedule.Sunday},
	}
	for _, day := range days {
		if !day.d.IsOpen {
			continue
		}
		if err := day.d.OpenTime.Validate(); err != nil {
			return fmt.Errorf("court %d: %s open time: %v", c.ID, day.name, err)
		}
		if err := day.d.CloseTime.Validate(); err != nil {
			return fmt.Errorf("court %d: %s close time: %v", c.ID, day.name, err)
		}
		if !day.d.OpenTime.IsBefore(day.d.CloseTime) {
			return fmt.Errorf("court %d: %s open time must be before close time", c.ID, day.name)
		}
	}

	if c.PeakPricePerHour != nil {
		if c.PeakStart.IsZero() || c.PeakEnd.IsZero() {
			return fmt.Errorf("court %d: peak price requires a peak window", c.ID)
		}
		if !c.PeakStart.IsBefore(c.PeakEnd) {
			return fmt.Errorf("court %d: peak start must be before peak end", c.ID)
		}
	}

	if (c.HudleFacilityID == nil) != (c.HudleActivityID == nil) {
		return fmt.Errorf("court %d: hudle facility and activity ids must be set together", c.ID)
	}

	return nil
}
