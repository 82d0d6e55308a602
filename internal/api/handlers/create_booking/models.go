package create_booking

import (
	"time"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	createBooking "github.com/ashish9800079/turf-booking-plugin-sub000/internal/usecase/create_booking"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

// CreateBookingRequest is the HTTP request body.
type CreateBookingRequest struct {
	CourtID       int64   `json:"courtId"`
	Date          string  `json:"date"`     // YYYY-MM-DD
	TimeFrom      string  `json:"timeFrom"` // HH:MM
	TimeTo        string  `json:"timeTo"`   // HH:MM
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	AddonIDs      []int64 `json:"addonIds,omitempty"`
}

// CreateBookingResponse is the HTTP shape of a committed reservation.
type CreateBookingResponse struct {
	ID            int64  `json:"id"`
	CourtID       int64  `json:"courtId"`
	Date          string `json:"date"`
	TimeFrom      string `json:"timeFrom"`
	TimeTo        string `json:"timeTo"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CourtAmount   string `json:"courtAmount"`
	TotalAmount   string `json:"totalAmount"`
	NextStep      string `json:"nextStep"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP body into a use case request.
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CourtID:       r.CourtID,
		Date:          date,
		TimeFrom:      types.TimeString(r.TimeFrom),
		TimeTo:        types.TimeString(r.TimeTo),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		UserID:        &userID,
		AddonIDs:      r.AddonIDs,
	}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP shape.
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:            resp.ID,
		CourtID:       resp.CourtID,
		Date:          resp.Date.Format(domain.DateFormat),
		TimeFrom:      resp.TimeFrom.String(),
		TimeTo:        resp.TimeTo.String(),
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		CourtAmount:   resp.CourtAmount.Round(2).String(),
		TotalAmount:   resp.TotalAmount.Round(2).String(),
		NextStep:      string(resp.NextStep),
		CreatedAt:     resp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
