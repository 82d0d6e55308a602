package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func validCourt() *Court {
	open := DaySchedule{IsOpen: true, OpenTime: ts("06:00"), CloseTime: ts("22:00")}
	return &Court{
		ID:                  1,
		Name:                "Turf A",
		Schedule:            WeekSchedule{Monday: open, Tuesday: open, Wednesday: open, Thursday: open, Friday: open, Saturday: open, Sunday: open},
		SlotDurationMinutes: 60,
		BasePricePerHour:    decimal.NewFromInt(500),
	}
}

func TestCourt_Validate(t *testing.T) {
	t.Run("valid court", func(t *testing.T) {
		assert.NoError(t, validCourt().Validate())
	})

	t.Run("open after close", func(t *testing.T) {
		c := validCourt()
		c.Schedule.Monday = DaySchedule{IsOpen: true, OpenTime: ts("22:00"), CloseTime: ts("06:00")}
		assert.Error(t, c.Validate())
	})

	t.Run("closed day skips hour validation", func(t *testing.T) {
		c := validCourt()
		c.Schedule.Sunday = DaySchedule{IsOpen: false}
		assert.NoError(t, c.Validate())
	})

	t.Run("unsupported slot duration", func(t *testing.T) {
		c := validCourt()
		c.SlotDurationMinutes = 45
		assert.Error(t, c.Validate())
	})

	t.Run("peak price without window", func(t *testing.T) {
		c := validCourt()
		c.PeakPricePerHour = ptr.Ptr(decimal.NewFromInt(900))
		assert.Error(t, c.Validate())

		c.PeakStart = ts("18:00")
		c.PeakEnd = ts("22:00")
		assert.NoError(t, c.Validate())
	})

	t.Run("hudle ids must be paired", func(t *testing.T) {
		c := validCourt()
		c.HudleFacilityID = ptr.Ptr("fac-1")
		assert.Error(t, c.Validate())

		c.HudleActivityID = ptr.Ptr("act-1")
		assert.NoError(t, c.Validate())
		assert.True(t, c.ExternallyReconciled())
	})
}

func TestWeekSchedule_ForDate(t *testing.T) {
	c := validCourt()
	c.Schedule.Saturday = DaySchedule{IsOpen: true, OpenTime: ts("08:00"), CloseTime: ts("20:00")}

	// 2026-08-29 is a Saturday.
	saturday := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	day := c.Schedule.ForDate(saturday)
	assert.Equal(t, ts("08:00"), day.OpenTime)

	sunday := saturday.AddDate(0, 0, 1)
	assert.Equal(t, c.Schedule.Sunday, c.Schedule.ForDate(sunday))
}
