package verify_payment

import (
	"context"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
)

type PaymentService interface {
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest, actor models.Actor) (*models.VerifyPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
