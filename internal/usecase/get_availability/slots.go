package get_availability

import (
	"fmt"
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// generateGrid builds consecutive slots of slotMinutes from open to close.
// The final slot is truncated at close time when the duration does not
// divide the window evenly; it never overflows past closing.
func generateGrid(day domain.DaySchedule, slotMinutes int) ([]domain.Slot, error) {
	openMins, err := day.OpenTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("invalid open time %q: %v", day.OpenTime, err)
	}
	closeMins, err := day.CloseTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("invalid close time %q: %v", day.CloseTime, err)
	}
	if closeMins <= openMins {
		return nil, fmt.Errorf("open time %s is not before close time %s", day.OpenTime, day.CloseTime)
	}

	slots := make([]domain.Slot, 0, (closeMins-openMins)/slotMinutes+1)
	for cur := openMins; cur < closeMins; cur += slotMinutes {
		next := cur + slotMinutes
		if next > closeMins {
			next = closeMins
		}
		slots = append(slots, domain.Slot{
			From:      minutesToTime(cur),
			To:        minutesToTime(next),
			Available: true,
		})
	}

	return slots, nil
}

func minutesToTime(mins int) types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:%02d", mins/60, mins%60))
}

// applyReservations marks slots overlapping any slot-holding reservation
// as unavailable.
func applyReservations(slots []domain.Slot, reservations []*domain.Reservation) {
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		for _, res := range reservations {
			if !res.HoldsSlot() {
				continue
			}
			if domain.Overlaps(slots[i].From, slots[i].To, res.TimeFrom, res.TimeTo) {
				slots[i].Available = false
				break
			}
		}
	}
}

// applyCurrentTime marks slots whose start has already passed today as
// unavailable. allPast forces the whole grid unavailable (requested date in
// the past).
func applyCurrentTime(slots []domain.Slot, date time.Time, now time.Time, allPast bool) {
	nowTime := types.NewTimeString(now)
	sameDay := sameDate(date, now)

	for i := range slots {
		if allPast {
			slots[i].Available = false
			continue
		}
		if sameDay && !nowTime.IsBefore(slots[i].From) {
			slots[i].Available = false
		}
	}
}

// applyExternalSlots subtracts availability using the external schedule.
// External data can only mark slots unavailable, never re-add availability
// the local store already removed.
func applyExternalSlots(slots []domain.Slot, remote []hudle.RemoteSlot) {
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		for _, rs := range remote {
			if rs.Free() {
				continue
			}
			if domain.Overlaps(slots[i].From, slots[i].To, rs.TimeFrom, rs.TimeTo) {
				slots[i].Available = false
				break
			}
		}
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// dateInPast reports whether date is strictly before today.
func dateInPast(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
