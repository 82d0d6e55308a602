package models

// Actor identifies the caller of a payment operation.
type Actor struct {
	UserID int64
	Admin  bool
}

// CreateOrderResponse carries everything the checkout widget needs to
// open the gateway's payment dialog.
type CreateOrderResponse struct {
	ReservationID int64  `json:"reservationId"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"` // minor units
	Currency      string `json:"currency"`
	KeyID         string `json:"keyId"`
}

// VerifyPaymentRequest is the checkout callback payload.
type VerifyPaymentRequest struct {
	ReservationID int64  `json:"reservationId"`
	OrderID       string `json:"orderId"`
	PaymentID     string `json:"paymentId"`
	Signature     string `json:"signature"`
}

// VerifyPaymentResponse reports the reservation's state after
// verification.
type VerifyPaymentResponse struct {
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentID     string `json:"paymentId"`
}

// PaymentAttempt is one recorded payment attempt.
type PaymentAttempt struct {
	ID        int64  `json:"id"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// PaymentListResponse lists the payment attempts of one reservation.
type PaymentListResponse struct {
	ReservationID int64            `json:"reservationId"`
	Payments      []PaymentAttempt `json:"payments"`
	Total         int              `json:"total"`
}
