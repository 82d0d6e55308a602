package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one payment attempt against a reservation. A
// reservation may accumulate several records (failed attempts, retries),
// so the table is append-oriented and rows are never updated.
type PaymentRecord struct {
	ID            int64
	ReservationID int64
	OrderID       string
	PaymentID     string
	Amount        decimal.Decimal
	Currency      string
	Method        string
	Status        string
	// RawPayload is the gateway's payment object as returned, kept opaque
	// for dispute resolution.
	RawPayload []byte
	CreatedAt  time.Time
}
