package verify_payment

import (
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
)

// VerifyPaymentRequest is the HTTP request body of the checkout callback.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// ToServiceRequest binds the body to the booking from the URL.
func (r *VerifyPaymentRequest) ToServiceRequest(bookingID int64) *models.VerifyPaymentRequest {
	return &models.VerifyPaymentRequest{
		ReservationID: bookingID,
		OrderID:       r.OrderID,
		PaymentID:     r.PaymentID,
		Signature:     r.Signature,
	}
}
