package reservation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/ptr"
)

var bookingDate = time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func reservationRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(reservationColumns).
		AddRow(
			int64(10), int64(1), bookingDate, "10:00", "11:00", "confirmed",
			"Asha", "asha@example.com", "+911234567890", int64(42),
			"500.00", "650.00", "pending", nil, nil, nil, nil, now, now,
		)
}

func TestCreate(t *testing.T) {
	res := &domain.Reservation{
		CourtID:       1,
		Date:          bookingDate,
		TimeFrom:      "10:00",
		TimeTo:        "11:00",
		Status:        domain.StatusPending,
		Customer:      domain.Customer{Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"},
		CourtAmount:   decimal.NewFromInt(500),
		TotalAmount:   decimal.NewFromInt(650),
		PaymentStatus: domain.PaymentPending,
	}

	t.Run("returns generated fields", func(t *testing.T) {
		db, mock := newMock(t)
		now := time.Now()

		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

		created, err := NewRepository(db).Create(context.Background(), res)
		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusion violation maps to slot conflict", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "reservations_no_overlap"})

		_, err := NewRepository(db).Create(context.Background(), res)
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnError(&pq.Error{Code: "53300"})

		_, err := NewRepository(db).Create(context.Background(), res)
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("scans nullable columns", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id =").
			WithArgs(int64(10)).
			WillReturnRows(reservationRows())

		res, err := NewRepository(db).GetByID(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.ID)
		require.NotNil(t, res.Customer.UserID)
		assert.Equal(t, int64(42), *res.Customer.UserID)
		assert.Nil(t, res.PaymentOrderID)
		assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("650.00")))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id =").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := NewRepository(db).GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestFind(t *testing.T) {
	t.Run("single date query orders by start and skips the lock outside a transaction", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`ORDER BY time_from ASC$`).
			WillReturnRows(reservationRows())

		list, err := NewRepository(db).Find(context.Background(), domain.ReservationFilter{
			CourtID:     ptr.Ptr(int64(1)),
			Date:        &bookingDate,
			OnlyHolding: true,
			ForUpdate:   true,
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("locks matched rows inside a transaction", func(t *testing.T) {
		db, mock := newMock(t)
		wrapped := dbmetrics.Wrap(db, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(`ORDER BY time_from ASC FOR UPDATE$`).
			WillReturnRows(reservationRows())
		mock.ExpectCommit()

		ctx := context.Background()
		tx, err := wrapped.BeginTx(ctx, &sql.TxOptions{})
		require.NoError(t, err)
		ctx = dbmetrics.ContextWithTx(ctx, tx)

		list, err := NewRepository(wrapped).Find(ctx, domain.ReservationFilter{
			CourtID:     ptr.Ptr(int64(1)),
			Date:        &bookingDate,
			OnlyHolding: true,
			ForUpdate:   true,
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history query orders newest first", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectQuery(`ORDER BY booking_date DESC, time_from DESC$`).
			WithArgs(int64(42)).
			WillReturnRows(reservationRows())

		list, err := NewRepository(db).Find(context.Background(), domain.ReservationFilter{
			UserID: ptr.Ptr(int64(42)),
		})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestUpdates(t *testing.T) {
	t.Run("update status affects one row", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectExec("UPDATE reservations SET status =").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewRepository(db).UpdateStatus(context.Background(), 10, domain.StatusCancelled)
		assert.NoError(t, err)
	})

	t.Run("zero affected rows maps to not found", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectExec("UPDATE reservations SET status =").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewRepository(db).UpdateStatus(context.Background(), 99, domain.StatusCancelled)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("complete payment confirms and settles", func(t *testing.T) {
		db, mock := newMock(t)

		mock.ExpectExec("UPDATE reservations SET status = (.+) payment_status = (.+) payment_id = ").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewRepository(db).CompletePayment(context.Background(), 10, "pay_xyz", "upi")
		assert.NoError(t, err)
	})
}
