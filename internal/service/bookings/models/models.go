package models

import (
	"errors"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
)

var (
	// ErrInvalidStatus is returned for an unknown status string.
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Actor identifies the caller of a booking operation.
type Actor struct {
	UserID int64
	Admin  bool
}

// Label names the actor kind in events and audit entries.
func (a Actor) Label() string {
	if a.Admin {
		return "admin"
	}
	return "customer"
}

// GetUserBookingsRequest asks for one user's booking history.
type GetUserBookingsRequest struct {
	UserID int64
	Status *string // optional filter
}

// AddonResponse is one snapshotted add-on line of a booking.
type AddonResponse struct {
	AddonID     int64  `json:"addonId"`
	Name        string `json:"name"`
	UnitPrice   string `json:"unitPrice"`
	PricingMode string `json:"pricingMode"`
	Amount      string `json:"amount"`
}

// BookingResponse is the read model of a reservation.
type BookingResponse struct {
	ID            int64           `json:"id"`
	CourtID       int64           `json:"courtId"`
	Date          string          `json:"date"`     // "2026-08-29"
	TimeFrom      string          `json:"timeFrom"` // "10:00"
	TimeTo        string          `json:"timeTo"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	CourtAmount   string          `json:"courtAmount"`
	TotalAmount   string          `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentID     *string         `json:"paymentId,omitempty"`
	Addons        []AddonResponse `json:"addons,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

// BookingListResponse is a list of bookings.
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// ToDomainStatus parses a status string.
func ToDomainStatus(s string) (domain.ReservationStatus, error) {
	status := domain.ReservationStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainReservation converts a reservation to its read model.
func FromDomainReservation(res *domain.Reservation) *BookingResponse {
	resp := &BookingResponse{
		ID:            res.ID,
		CourtID:       res.CourtID,
		Date:          res.Date.Format(domain.DateFormat),
		TimeFrom:      res.TimeFrom.String(),
		TimeTo:        res.TimeTo.String(),
		Status:        string(res.Status),
		CustomerName:  res.Customer.Name,
		CustomerEmail: res.Customer.Email,
		CustomerPhone: res.Customer.Phone,
		CourtAmount:   res.CourtAmount.Round(2).String(),
		TotalAmount:   res.TotalAmount.Round(2).String(),
		PaymentStatus: string(res.PaymentStatus),
		PaymentID:     res.PaymentID,
		CreatedAt:     res.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	for _, sel := range res.Addons {
		resp.Addons = append(resp.Addons, AddonResponse{
			AddonID:     sel.AddonID,
			Name:        sel.Name,
			UnitPrice:   sel.UnitPrice.Round(2).String(),
			PricingMode: string(sel.PricingMode),
			Amount:      sel.Amount.Round(2).String(),
		})
	}

	return resp
}

// FromDomainReservationList converts a list of reservations.
func FromDomainReservationList(list []*domain.Reservation) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(list)),
		Total:    len(list),
	}
	for _, res := range list {
		resp.Bookings = append(resp.Bookings, *FromDomainReservation(res))
	}
	return resp
}
