// Package notifier delivers booking notifications to customers. The log
// implementation records what would be sent; a mail or SMS provider can
// replace it behind the same interface.
package notifier

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
)

// Notifier delivers customer-facing booking notifications.
type Notifier interface {
	BookingPending(ctx context.Context, evt events.BookingPending) error
	BookingConfirmed(ctx context.Context, evt events.BookingConfirmed) error
	BookingCancelled(ctx context.Context, evt events.BookingCancelled) error
}

// Logger is the narrow logging surface of the log notifier.
type Logger interface {
	Info(format string, v ...interface{})
}

// LogNotifier writes each notification to the service log.
type LogNotifier struct {
	log Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// BookingPending logs a request-received notification.
func (n *LogNotifier) BookingPending(ctx context.Context, evt events.BookingPending) error {
	n.log.Info("notify %s: booking #%d received, %s at %s %s-%s awaits confirmation, total %s %s",
		evt.CustomerEmail, evt.ReservationID, evt.CourtName,
		evt.Date, evt.TimeFrom, evt.TimeTo, evt.TotalAmount, evt.Currency)
	return nil
}

// BookingConfirmed logs a confirmation notification.
func (n *LogNotifier) BookingConfirmed(ctx context.Context, evt events.BookingConfirmed) error {
	n.log.Info("notify %s: booking #%d confirmed, %s at %s %s-%s, total %s %s",
		evt.CustomerEmail, evt.ReservationID, evt.CourtName,
		evt.Date, evt.TimeFrom, evt.TimeTo, evt.TotalAmount, evt.Currency)
	return nil
}

// BookingCancelled logs a cancellation notification.
func (n *LogNotifier) BookingCancelled(ctx context.Context, evt events.BookingCancelled) error {
	n.log.Info("notify %s: booking #%d cancelled by %s, %s %s-%s, refund outcome %s",
		evt.CustomerEmail, evt.ReservationID, evt.CancelledBy,
		evt.Date, evt.TimeFrom, evt.TimeTo, evt.RefundOutcome)
	return nil
}
