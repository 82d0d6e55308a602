package create_payment_order

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, reservationID int64, actor models.Actor) (*models.CreateOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
