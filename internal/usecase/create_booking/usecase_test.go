package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	addonRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/addon"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/pricing"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/types"
)

type mockCourtRepo struct{ mock.Mock }

func (m *mockCourtRepo) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Court), args.Error(1)
}

type mockReservationRepo struct{ mock.Mock }

// Create returns the reservation passed in (after any Run hook mutated it)
// unless the expectation supplies an explicit error.
func (m *mockReservationRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, res)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Reservation), nil
	}
	return res, nil
}

func (m *mockReservationRepo) Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

type mockAddonRepo struct{ mock.Mock }

func (m *mockAddonRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Addon, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Addon), args.Error(1)
}

func (m *mockAddonRepo) CreateSelections(ctx context.Context, selections []domain.AddonSelection) error {
	return m.Called(ctx, selections).Error(0)
}

type mockHistoryRepo struct{ mock.Mock }

func (m *mockHistoryRepo) Append(ctx context.Context, entry *domain.SlotHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type mockHudleClient struct{ mock.Mock }

func (m *mockHudleClient) IsRangeFree(ctx context.Context, facilityID, activityID string, date time.Time, timeFrom, timeTo types.TimeString) (bool, error) {
	args := m.Called(ctx, facilityID, activityID, date, timeFrom, timeTo)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	return m.Called(ctx, topic, payload).Error(0)
}

// passthroughTxManager runs the function directly; the serialization
// behavior itself is the real transaction manager's concern.
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	bookingDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	clockNow    = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
)

func openAllWeek(open, close types.TimeString) domain.WeekSchedule {
	day := domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: close}
	return domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func testCourt() *domain.Court {
	return &domain.Court{
		ID:                  1,
		Name:                "Turf A",
		Schedule:            openAllWeek("08:00", "22:00"),
		SlotDurationMinutes: 60,
		BasePricePerHour:    decimal.NewFromInt(500),
	}
}

type fixture struct {
	courtRepo *mockCourtRepo
	resRepo   *mockReservationRepo
	addons    *mockAddonRepo
	history   *mockHistoryRepo
	hudle     *mockHudleClient
	publisher *mockPublisher
}

func newFixture() *fixture {
	return &fixture{
		courtRepo: &mockCourtRepo{},
		resRepo:   &mockReservationRepo{},
		addons:    &mockAddonRepo{},
		history:   &mockHistoryRepo{},
		hudle:     &mockHudleClient{},
		publisher: &mockPublisher{},
	}
}

func (f *fixture) usecase(mode domain.ConfirmationMode) *UseCase {
	return NewUseCase(
		f.courtRepo, f.resRepo, f.addons, f.history, f.hudle,
		pricing.NewEngine(), f.publisher, passthroughTxManager{},
		mode, "INR", nopLogger{},
	).WithTimeProvider(fixedTime{t: clockNow})
}

func validRequest() *Request {
	return &Request{
		CourtID:       1,
		Date:          bookingDate,
		TimeFrom:      "10:00",
		TimeTo:        "11:00",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+911234567890",
		UserID:        ptr.Ptr(int64(42)),
	}
}

func TestExecute_AutoConfirm(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.resRepo.On("Find", mock.Anything, mock.MatchedBy(func(filter domain.ReservationFilter) bool {
		return filter.OnlyHolding && filter.ForUpdate
	})).Return([]*domain.Reservation{}, nil)
	f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 10
	}).Return(nil, nil)
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.SlotHistoryEntry) bool {
		return e.ReservationID == 10 && e.Status == domain.HistoryBooked
	})).Return(nil)
	f.publisher.On("Publish", mock.Anything, events.TopicBookingConfirmed, mock.Anything).Return(nil)

	uc := f.usecase(domain.ConfirmAuto)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, NextStepNone, resp.NextStep)
	assert.True(t, resp.CourtAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(500)))

	f.publisher.AssertCalled(t, "Publish", mock.Anything, events.TopicBookingConfirmed, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, events.TopicBookingPending, mock.Anything)
	f.history.AssertExpectations(t)
}

func TestExecute_ManualModePublishesPendingEvent(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
	f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 15
	}).Return(nil, nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, events.TopicBookingPending, mock.MatchedBy(func(evt events.BookingPending) bool {
		return evt.ReservationID == 15 && evt.CourtName == "Turf A" &&
			evt.CustomerEmail == "asha@example.com" && evt.TotalAmount == "500"
	})).Return(nil)

	uc := f.usecase(domain.ConfirmManual)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, NextStepAwaitConfirmation, resp.NextStep)
	f.publisher.AssertExpectations(t)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, events.TopicBookingConfirmed, mock.Anything)
}

func TestExecute_PaymentModeStaysPending(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
	f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 11
	}).Return(nil, nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)

	uc := f.usecase(domain.ConfirmOnPayment)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, NextStepPayment, resp.NextStep)
	// no confirmed event before payment completes
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_OverlapRejected(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{
		{ID: 5, TimeFrom: "10:30", TimeTo: "11:30", Status: domain.StatusPending},
	}, nil)

	uc := f.usecase(domain.ConfirmAuto)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	f.resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_TouchingRangeAllowed(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	// existing reservation ends exactly at the new range's start
	f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{
		{ID: 5, TimeFrom: "09:00", TimeTo: "10:00", Status: domain.StatusConfirmed},
	}, nil)
	f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 12
	}).Return(nil, nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := f.usecase(domain.ConfirmAuto)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.ID)
}

func TestExecute_AddonsPricedAndSnapshotted(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.addons.On("GetByIDs", mock.Anything, []int64{3, 4}).Return([]*domain.Addon{
		{ID: 3, Name: "Floodlights", UnitPrice: decimal.NewFromInt(100), PricingMode: domain.AddonPerHour, Active: true},
		{ID: 4, Name: "Equipment kit", UnitPrice: decimal.NewFromInt(250), PricingMode: domain.AddonPerBooking, Active: true},
	}, nil)
	f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
	f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Reservation).ID = 13
	}).Return(nil, nil)
	f.addons.On("CreateSelections", mock.Anything, mock.MatchedBy(func(sel []domain.AddonSelection) bool {
		return len(sel) == 2 && sel[0].ReservationID == 13 && sel[1].ReservationID == 13
	})).Return(nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := f.usecase(domain.ConfirmAuto)

	req := validRequest()
	req.TimeFrom = "10:00"
	req.TimeTo = "11:30" // 1.5h
	req.AddonIDs = []int64{3, 4}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// court 500*1.5=750, floodlights 100*1.5=150, kit 250
	assert.True(t, resp.CourtAmount.Equal(decimal.NewFromInt(750)), "got %s", resp.CourtAmount)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(1150)), "got %s", resp.TotalAmount)
	f.addons.AssertExpectations(t)
}

func TestExecute_MissingAddonRejected(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	f.addons.On("GetByIDs", mock.Anything, []int64{99}).Return(nil, addonRepo.ErrAddonNotFound)

	uc := f.usecase(domain.ConfirmAuto)

	req := validRequest()
	req.AddonIDs = []int64{99}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAddonNotFound)
}

func TestExecute_ExternalCheckFailClosed(t *testing.T) {
	court := testCourt()
	court.HudleFacilityID = ptr.Ptr("fac-1")
	court.HudleActivityID = ptr.Ptr("act-7")

	t.Run("external error rejects the booking", func(t *testing.T) {
		f := newFixture()
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
		f.hudle.On("IsRangeFree", mock.Anything, "fac-1", "act-7", bookingDate,
			types.TimeString("10:00"), types.TimeString("11:00")).
			Return(false, errors.New("gateway timeout"))

		uc := f.usecase(domain.ConfirmAuto)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrExternalCheckFailed)
		f.resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("external busy rejects the booking", func(t *testing.T) {
		f := newFixture()
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
		f.hudle.On("IsRangeFree", mock.Anything, "fac-1", "act-7", bookingDate,
			types.TimeString("10:00"), types.TimeString("11:00")).
			Return(false, nil)

		uc := f.usecase(domain.ConfirmAuto)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("external free lets the booking through", func(t *testing.T) {
		f := newFixture()
		f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
		f.hudle.On("IsRangeFree", mock.Anything, "fac-1", "act-7", bookingDate,
			types.TimeString("10:00"), types.TimeString("11:00")).
			Return(true, nil)
		f.resRepo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
		f.resRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Reservation).ID = 14
		}).Return(nil, nil)
		f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		uc := f.usecase(domain.ConfirmAuto)

		resp, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(14), resp.ID)
	})
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newFixture().usecase(domain.ConfirmAuto)

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "missing name", mutate: func(r *Request) { r.CustomerName = " " }},
		{name: "missing email", mutate: func(r *Request) { r.CustomerEmail = "" }},
		{name: "missing phone", mutate: func(r *Request) { r.CustomerPhone = "" }},
		{name: "bad time format", mutate: func(r *Request) { r.TimeFrom = "25:00" }},
		{name: "reversed range", mutate: func(r *Request) { r.TimeFrom = "12:00"; r.TimeTo = "11:00" }},
		{name: "zero court", mutate: func(r *Request) { r.CourtID = 0 }},
		{name: "duplicate addons", mutate: func(r *Request) { r.AddonIDs = []int64{3, 3} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ScheduleViolations(t *testing.T) {
	f := newFixture()
	f.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	uc := f.usecase(domain.ConfirmAuto)

	t.Run("outside opening hours", func(t *testing.T) {
		req := validRequest()
		req.TimeFrom = "07:00"
		req.TimeTo = "08:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("past date", func(t *testing.T) {
		req := validRequest()
		req.Date = clockNow.AddDate(0, 0, -1)
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("start already passed today", func(t *testing.T) {
		req := validRequest()
		req.Date = clockNow
		req.TimeFrom = "08:00"
		req.TimeTo = "09:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("closed day", func(t *testing.T) {
		closed := testCourt()
		closed.Schedule.Tuesday = domain.DaySchedule{IsOpen: false}

		f2 := newFixture()
		f2.courtRepo.On("GetByID", mock.Anything, int64(1)).Return(closed, nil)

		// 2026-09-01 is a Tuesday
		_, err := f2.usecase(domain.ConfirmAuto).Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrCourtClosed)
	})
}
