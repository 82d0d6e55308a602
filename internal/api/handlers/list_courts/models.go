package list_courts

import (
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
)

// DayHours is one weekday's opening hours.
type DayHours struct {
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// CourtResponse is the HTTP shape of one court.
type CourtResponse struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	SlotDurationMinutes int                 `json:"slotDurationMinutes"`
	BasePricePerHour    string              `json:"basePricePerHour"`
	WeekendPricePerHour *string             `json:"weekendPricePerHour,omitempty"`
	PeakPricePerHour    *string             `json:"peakPricePerHour,omitempty"`
	PeakStart           string              `json:"peakStart,omitempty"`
	PeakEnd             string              `json:"peakEnd,omitempty"`
	Schedule            map[string]DayHours `json:"schedule"`
}

// CourtListResponse is the court list.
type CourtListResponse struct {
	Courts []CourtResponse `json:"courts"`
	Total  int             `json:"total"`
}

// FromDomainCourts converts domain courts to the HTTP shape.
func FromDomainCourts(courts []*domain.Court) *CourtListResponse {
	resp := &CourtListResponse{
		Courts: make([]CourtResponse, 0, len(courts)),
		Total:  len(courts),
	}

	for _, court := range courts {
		c := CourtResponse{
			ID:                  court.ID,
			Name:                court.Name,
			SlotDurationMinutes: court.SlotDurationMinutes,
			BasePricePerHour:    court.BasePricePerHour.Round(2).String(),
			PeakStart:           court.PeakStart.String(),
			PeakEnd:             court.PeakEnd.String(),
			Schedule: map[string]DayHours{
				"monday":    toDayHours(court.Schedule.Monday),
				"tuesday":   toDayHours(court.Schedule.Tuesday),
				"wednesday": toDayHours(court.Schedule.Wednesday),
				"thursday":  toDayHours(court.Schedule.Thursday),
				"friday":    toDayHours(court.Schedule.Friday),
				"saturday":  toDayHours(court.Schedule.Saturday),
				"sunday":    toDayHours(court.Schedule.Sunday),
			},
		}

		if court.WeekendPricePerHour != nil {
			price := court.WeekendPricePerHour.Round(2).String()
			c.WeekendPricePerHour = &price
		}
		if court.PeakPricePerHour != nil {
			price := court.PeakPricePerHour.Round(2).String()
			c.PeakPricePerHour = &price
		}

		resp.Courts = append(resp.Courts, c)
	}

	return resp
}

func toDayHours(day domain.DaySchedule) DayHours {
	if !day.IsOpen {
		return DayHours{IsOpen: false}
	}
	return DayHours{
		IsOpen:    true,
		OpenTime:  day.OpenTime.String(),
		CloseTime: day.CloseTime.String(),
	}
}
