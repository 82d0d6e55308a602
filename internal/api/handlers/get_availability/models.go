package get_availability

import (
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	getAvailability "github.com/ashish9800079/turf-booking-plugin-sub000/internal/usecase/get_availability"
)

// SlotResponse is one bookable window of the grid.
type SlotResponse struct {
	TimeFrom  string `json:"timeFrom"`
	TimeTo    string `json:"timeTo"`
	Available bool   `json:"available"`
	Price     string `json:"price"`
}

// AvailabilityResponse is the HTTP shape of the slot grid. openTime and
// closeTime are empty on a closed day.
type AvailabilityResponse struct {
	CourtID             int64          `json:"courtId"`
	CourtName           string         `json:"courtName"`
	Date                string         `json:"date"`
	SlotDurationMinutes int            `json:"slotDurationMinutes"`
	OpenTime            string         `json:"openTime"`
	CloseTime           string         `json:"closeTime"`
	Closed              bool           `json:"closed"`
	Slots               []SlotResponse `json:"slots"`
}

// ToUseCaseRequest parses the query inputs into a use case request.
func ToUseCaseRequest(courtID int64, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailability.Request{CourtID: courtID, Date: date}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP shape.
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			TimeFrom:  slot.From.String(),
			TimeTo:    slot.To.String(),
			Available: slot.Available,
			Price:     slot.Price.Round(2).String(),
		}
	}

	return &AvailabilityResponse{
		CourtID:             resp.CourtID,
		CourtName:           resp.CourtName,
		Date:                resp.Date.Format(domain.DateFormat),
		SlotDurationMinutes: resp.SlotDurationMinutes,
		OpenTime:            resp.OpenTime.String(),
		CloseTime:           resp.CloseTime.String(),
		Closed:              resp.Closed,
		Slots:               slots,
	}
}
