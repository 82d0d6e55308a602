package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	paymentRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/payment"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/razorpay"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments/models"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
)

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockReservationRepo) SetPaymentOrder(ctx context.Context, id int64, orderID string) error {
	return m.Called(ctx, id, orderID).Error(0)
}

func (m *mockReservationRepo) CompletePayment(ctx context.Context, id int64, paymentID, method string) error {
	return m.Called(ctx, id, paymentID, method).Error(0)
}

type mockCourtRepo struct{ mock.Mock }

func (m *mockCourtRepo) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Court), args.Error(1)
}

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) Create(ctx context.Context, rec *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, rec)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return rec, nil
}

func (m *mockPaymentRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *mockPaymentRepo) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.PaymentRecord, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentRecord), args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error) {
	args := m.Called(ctx, amount, currency, receipt, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

func (m *mockGateway) FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Payment), args.Error(1)
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) error {
	return m.Called(orderID, paymentID, signature).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	return m.Called(ctx, topic, payload).Error(0)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var clockNow = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

type fixture struct {
	resRepo   *mockReservationRepo
	courtRepo *mockCourtRepo
	payRepo   *mockPaymentRepo
	gateway   *mockGateway
	publisher *mockPublisher
}

func newFixture() *fixture {
	return &fixture{
		resRepo:   &mockReservationRepo{},
		courtRepo: &mockCourtRepo{},
		payRepo:   &mockPaymentRepo{},
		gateway:   &mockGateway{},
		publisher: &mockPublisher{},
	}
}

func (f *fixture) service() *Service {
	return NewService(
		f.resRepo, f.courtRepo, f.payRepo, f.gateway, f.publisher,
		passthroughTxManager{}, "rzp_test_key", "INR", nopLogger{},
	).WithTimeProvider(fixedTime{t: clockNow})
}

// pending prepaid booking for 512.50, owned by user 42
func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:       21,
		CourtID:  1,
		Date:     time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		TimeFrom: "10:00",
		TimeTo:   "11:00",
		Status:   domain.StatusPending,
		Customer: domain.Customer{
			Name:   "Asha",
			Email:  "asha@example.com",
			UserID: ptr.Ptr(int64(42)),
		},
		TotalAmount:   decimal.RequireFromString("512.50"),
		PaymentStatus: domain.PaymentPending,
	}
}

func owner() models.Actor { return models.Actor{UserID: 42} }

func TestCreateOrder(t *testing.T) {
	t.Run("opens an order in minor units", func(t *testing.T) {
		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(testReservation(), nil)
		f.gateway.On("CreateOrder", mock.Anything, int64(51250), "INR", mock.Anything,
			map[string]string{"reservation_id": "21"}).
			Return(&razorpay.Order{ID: "order_abc", Amount: 51250, Currency: "INR"}, nil)
		f.resRepo.On("SetPaymentOrder", mock.Anything, int64(21), "order_abc").Return(nil)

		resp, err := f.service().CreateOrder(context.Background(), 21, owner())
		require.NoError(t, err)
		assert.Equal(t, "order_abc", resp.OrderID)
		assert.Equal(t, int64(51250), resp.Amount)
		assert.Equal(t, "rzp_test_key", resp.KeyID)
	})

	t.Run("settled booking is not payable", func(t *testing.T) {
		paid := testReservation()
		paid.Status = domain.StatusConfirmed
		paid.PaymentStatus = domain.PaymentCompleted

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(paid, nil)

		_, err := f.service().CreateOrder(context.Background(), 21, owner())
		assert.ErrorIs(t, err, ErrNotPayable)
		f.gateway.AssertNotCalled(t, "CreateOrder",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled booking is not payable", func(t *testing.T) {
		gone := testReservation()
		gone.Status = domain.StatusCancelled

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(gone, nil)

		_, err := f.service().CreateOrder(context.Background(), 21, owner())
		assert.ErrorIs(t, err, ErrNotPayable)
	})

	t.Run("stranger denied", func(t *testing.T) {
		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(testReservation(), nil)

		_, err := f.service().CreateOrder(context.Background(), 21, models.Actor{UserID: 7})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("fractional minor units rejected", func(t *testing.T) {
		odd := testReservation()
		odd.TotalAmount = decimal.RequireFromString("512.505")

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(odd, nil)

		_, err := f.service().CreateOrder(context.Background(), 21, owner())
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("disabled without a gateway", func(t *testing.T) {
		f := newFixture()
		svc := NewService(
			f.resRepo, f.courtRepo, f.payRepo, nil, f.publisher,
			passthroughTxManager{}, "", "INR", nopLogger{},
		)

		_, err := svc.CreateOrder(context.Background(), 21, owner())
		assert.ErrorIs(t, err, ErrPaymentsDisabled)
	})
}

func verifyRequest() *models.VerifyPaymentRequest {
	return &models.VerifyPaymentRequest{
		ReservationID: 21,
		OrderID:       "order_abc",
		PaymentID:     "pay_xyz",
		Signature:     "sig",
	}
}

func capturedPayment() *razorpay.Payment {
	return &razorpay.Payment{
		ID:       "pay_xyz",
		OrderID:  "order_abc",
		Amount:   51250,
		Currency: "INR",
		Method:   "upi",
		Status:   "captured",
		Raw:      []byte(`{"id":"pay_xyz"}`),
	}
}

func TestVerifyPayment(t *testing.T) {
	withOrder := func() *domain.Reservation {
		res := testReservation()
		res.PaymentOrderID = ptr.Ptr("order_abc")
		return res
	}

	t.Run("settles and confirms a pending booking", func(t *testing.T) {
		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(withOrder(), nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		f.gateway.On("FetchPayment", mock.Anything, "pay_xyz").Return(capturedPayment(), nil)
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Court{ID: 1, Name: "Turf A"}, nil)
		f.payRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.PaymentRecord) bool {
			return rec.PaymentID == "pay_xyz" && rec.Method == "upi" && len(rec.RawPayload) > 0
		})).Return(nil, nil)
		f.resRepo.On("CompletePayment", mock.Anything, int64(21), "pay_xyz", "upi").Return(nil)
		f.publisher.On("Publish", mock.Anything, events.TopicBookingConfirmed, mock.MatchedBy(func(p interface{}) bool {
			evt := p.(events.BookingConfirmed)
			return evt.ReservationID == 21 && evt.TotalAmount == "512.5"
		})).Return(nil)

		resp, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, string(domain.PaymentCompleted), resp.PaymentStatus)
	})

	t.Run("already confirmed booking skips the confirmed event", func(t *testing.T) {
		confirmed := withOrder()
		confirmed.Status = domain.StatusConfirmed

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(confirmed, nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		f.gateway.On("FetchPayment", mock.Anything, "pay_xyz").Return(capturedPayment(), nil)
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Court{ID: 1, Name: "Turf A"}, nil)
		f.payRepo.On("Create", mock.Anything, mock.Anything).Return(nil, nil)
		f.resRepo.On("CompletePayment", mock.Anything, int64(21), "pay_xyz", "upi").Return(nil)

		_, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		require.NoError(t, err)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replay of a settled payment succeeds without side effects", func(t *testing.T) {
		settled := withOrder()
		settled.Status = domain.StatusConfirmed
		settled.PaymentStatus = domain.PaymentCompleted
		settled.PaymentID = ptr.Ptr("pay_xyz")

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(settled, nil)

		resp, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		require.NoError(t, err)
		assert.Equal(t, "pay_xyz", resp.PaymentID)
		f.gateway.AssertNotCalled(t, "FetchPayment", mock.Anything, mock.Anything)
		f.resRepo.AssertNotCalled(t, "CompletePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad signature rejected before any gateway call", func(t *testing.T) {
		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(withOrder(), nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(razorpay.ErrSignatureMismatch)

		_, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		assert.ErrorIs(t, err, ErrSignatureInvalid)
		f.gateway.AssertNotCalled(t, "FetchPayment", mock.Anything, mock.Anything)
	})

	t.Run("order mismatch rejected", func(t *testing.T) {
		other := withOrder()
		other.PaymentOrderID = ptr.Ptr("order_other")

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(other, nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)

		_, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		assert.ErrorIs(t, err, ErrOrderMismatch)
	})

	t.Run("uncaptured payment rejected", func(t *testing.T) {
		failed := capturedPayment()
		failed.Status = "failed"
		failed.Captured = false

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(withOrder(), nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		f.gateway.On("FetchPayment", mock.Anything, "pay_xyz").Return(failed, nil)

		_, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		assert.ErrorIs(t, err, ErrPaymentNotCaptured)
		f.resRepo.AssertNotCalled(t, "CompletePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("captured amount must match the booking total", func(t *testing.T) {
		short := capturedPayment()
		short.Amount = 50000

		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(withOrder(), nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		f.gateway.On("FetchPayment", mock.Anything, "pay_xyz").Return(short, nil)

		_, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		assert.ErrorIs(t, err, ErrAmountMismatch)
	})

	t.Run("concurrent duplicate treated as settled", func(t *testing.T) {
		f := newFixture()
		f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(withOrder(), nil)
		f.payRepo.On("GetByPaymentID", mock.Anything, "pay_xyz").Return(nil, paymentRepo.ErrPaymentNotFound)
		f.gateway.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		f.gateway.On("FetchPayment", mock.Anything, "pay_xyz").Return(capturedPayment(), nil)
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Court{ID: 1, Name: "Turf A"}, nil)
		f.payRepo.On("Create", mock.Anything, mock.Anything).Return(nil, paymentRepo.ErrDuplicatePayment)

		resp, err := f.service().VerifyPayment(context.Background(), verifyRequest(), owner())
		require.NoError(t, err)
		assert.Equal(t, string(domain.PaymentCompleted), resp.PaymentStatus)
	})

	t.Run("validation errors", func(t *testing.T) {
		f := newFixture()
		req := verifyRequest()
		req.Signature = ""

		_, err := f.service().VerifyPayment(context.Background(), req, owner())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestListPayments(t *testing.T) {
	f := newFixture()
	settled := testReservation()
	f.resRepo.On("GetByID", mock.Anything, int64(21)).Return(settled, nil)
	f.payRepo.On("ListByReservation", mock.Anything, int64(21)).Return([]*domain.PaymentRecord{
		{ID: 1, OrderID: "order_abc", PaymentID: "pay_xyz",
			Amount: decimal.RequireFromString("512.50"), Currency: "INR",
			Method: "upi", Status: "captured", CreatedAt: clockNow},
	}, nil)

	resp, err := f.service().ListPayments(context.Background(), 21, owner())
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "512.5", resp.Payments[0].Amount)
}
