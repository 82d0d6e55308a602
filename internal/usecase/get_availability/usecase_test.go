package get_availability

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
	courtRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/court"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
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

func (m *mockReservationRepo) Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

type mockHudleClient struct{ mock.Mock }

func (m *mockHudleClient) GetSlots(ctx context.Context, facilityID, activityID string, date time.Time) ([]hudle.RemoteSlot, error) {
	args := m.Called(ctx, facilityID, activityID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hudle.RemoteSlot), args.Error(1)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

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
		Schedule:            openAllWeek("10:00", "13:00"),
		SlotDurationMinutes: 60,
		BasePricePerHour:    decimal.NewFromInt(500),
	}
}

// a Monday well in the future relative to the fixed clock below
var (
	bookingDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	clockNow    = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
)

func newUseCase(cr CourtRepository, rr ReservationRepository, hc HudleClient) *UseCase {
	return NewUseCase(cr, rr, hc, pricing.NewEngine(), nopLogger{}).
		WithTimeProvider(fixedTime{t: clockNow})
}

func TestExecute_GridWithReservations(t *testing.T) {
	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}

	cr.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{
		{CourtID: 1, TimeFrom: "11:00", TimeTo: "12:00", Status: domain.StatusConfirmed},
	}, nil)

	uc := newUseCase(cr, rr, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.False(t, resp.Closed)
	assert.Equal(t, types.TimeString("10:00"), resp.OpenTime)
	assert.Equal(t, types.TimeString("13:00"), resp.CloseTime)

	assert.True(t, resp.Slots[0].Available)  // 10:00-11:00
	assert.False(t, resp.Slots[1].Available) // 11:00-12:00 reserved
	assert.True(t, resp.Slots[2].Available)  // 12:00-13:00

	for _, s := range resp.Slots {
		assert.True(t, s.Price.Equal(decimal.NewFromInt(500)), "slot %s price %s", s.From, s.Price)
	}
}

func TestExecute_TrailingSlotTruncated(t *testing.T) {
	court := testCourt()
	court.Schedule = openAllWeek("10:00", "12:30")

	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	cr.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)

	uc := newUseCase(cr, rr, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	last := resp.Slots[2]
	assert.Equal(t, "12:00", last.From.String())
	assert.Equal(t, "12:30", last.To.String())
	// 30 minutes at 500/hour
	assert.True(t, last.Price.Equal(decimal.NewFromInt(250)), "got %s", last.Price)
}

func TestExecute_BoundaryTouchDoesNotBlock(t *testing.T) {
	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	cr.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	// reservation ends exactly where the 11:00 slot starts
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{
		{CourtID: 1, TimeFrom: "10:00", TimeTo: "11:00", Status: domain.StatusPending},
	}, nil)

	uc := newUseCase(cr, rr, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)

	assert.False(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
}

func TestExecute_ClosedDay(t *testing.T) {
	court := testCourt()
	court.Schedule.Monday = domain.DaySchedule{IsOpen: false}

	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	cr.On("GetByID", mock.Anything, int64(1)).Return(court, nil)

	uc := newUseCase(cr, rr, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.Empty(t, resp.Slots)
	assert.True(t, resp.OpenTime.IsZero())
	assert.True(t, resp.CloseTime.IsZero())
	rr.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestExecute_PastDateReturnsFullGridUnavailable(t *testing.T) {
	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	cr.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)

	uc := newUseCase(cr, rr, nil)

	past := clockNow.AddDate(0, 0, -3)
	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: past})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}
	// the schedule store is not consulted for a past date
	rr.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestExecute_TodayPastSlotsUnavailable(t *testing.T) {
	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	cr.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)

	// clock at 11:00 on the requested date
	uc := NewUseCase(cr, rr, nil, pricing.NewEngine(), nopLogger{}).
		WithTimeProvider(fixedTime{t: time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.False(t, resp.Slots[0].Available) // 10:00 started already
	assert.False(t, resp.Slots[1].Available) // 11:00 starts exactly now
	assert.True(t, resp.Slots[2].Available)  // 12:00 still ahead
}

func TestExecute_ExternalScheduleSubtracts(t *testing.T) {
	court := testCourt()
	court.HudleFacilityID = ptr.Ptr("fac-1")
	court.HudleActivityID = ptr.Ptr("act-7")

	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	hc := &mockHudleClient{}

	cr.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
	hc.On("GetSlots", mock.Anything, "fac-1", "act-7", bookingDate).Return([]hudle.RemoteSlot{
		{TimeFrom: "12:00", TimeTo: "12:30", Available: false},
		{TimeFrom: "10:00", TimeTo: "11:00", Available: true, Inventory: 3},
	}, nil)

	uc := newUseCase(cr, rr, hc)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)

	assert.True(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
	assert.False(t, resp.Slots[2].Available) // blocked by the external 12:00 window
}

func TestExecute_ExternalScheduleFailureFailsOpen(t *testing.T) {
	court := testCourt()
	court.HudleFacilityID = ptr.Ptr("fac-1")
	court.HudleActivityID = ptr.Ptr("act-7")

	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	hc := &mockHudleClient{}

	cr.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{}, nil)
	hc.On("GetSlots", mock.Anything, "fac-1", "act-7", bookingDate).
		Return(nil, hudle.ErrInvalidResponse)

	uc := newUseCase(cr, rr, hc)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
}

func TestExecute_ExternalCannotAddAvailabilityBack(t *testing.T) {
	court := testCourt()
	court.HudleFacilityID = ptr.Ptr("fac-1")
	court.HudleActivityID = ptr.Ptr("act-7")

	cr := &mockCourtRepo{}
	rr := &mockReservationRepo{}
	hc := &mockHudleClient{}

	cr.On("GetByID", mock.Anything, int64(1)).Return(court, nil)
	rr.On("Find", mock.Anything, mock.Anything).Return([]*domain.Reservation{
		{CourtID: 1, TimeFrom: "10:00", TimeTo: "11:00", Status: domain.StatusConfirmed},
	}, nil)
	// external system says the same window is wide open
	hc.On("GetSlots", mock.Anything, "fac-1", "act-7", bookingDate).Return([]hudle.RemoteSlot{
		{TimeFrom: "10:00", TimeTo: "11:00", Available: true, Inventory: 5},
	}, nil)

	uc := newUseCase(cr, rr, hc)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
	require.NoError(t, err)
	assert.False(t, resp.Slots[0].Available)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("court not found", func(t *testing.T) {
		cr := &mockCourtRepo{}
		cr.On("GetByID", mock.Anything, int64(7)).Return(nil, courtRepo.ErrCourtNotFound)

		uc := newUseCase(cr, &mockReservationRepo{}, nil)

		_, err := uc.Execute(context.Background(), &Request{CourtID: 7, Date: bookingDate})
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})

	t.Run("invalid court id", func(t *testing.T) {
		uc := newUseCase(&mockCourtRepo{}, &mockReservationRepo{}, nil)
		_, err := uc.Execute(context.Background(), &Request{CourtID: 0, Date: bookingDate})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("schedule store failure is internal", func(t *testing.T) {
		cr := &mockCourtRepo{}
		rr := &mockReservationRepo{}
		cr.On("GetByID", mock.Anything, int64(1)).Return(testCourt(), nil)
		rr.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		uc := newUseCase(cr, rr, nil)
		_, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: bookingDate})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
