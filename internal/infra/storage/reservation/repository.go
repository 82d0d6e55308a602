package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"court_id",
	"booking_date",
	"time_from",
	"time_to",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"user_id",
	"court_amount",
	"total_amount",
	"payment_status",
	"payment_order_id",
	"payment_id",
	"payment_method",
	"paid_at",
	"created_at",
	"updated_at",
}

// Repository persists reservations. It is the schedule store: the single
// source of truth for whether a court/date/time window is booked.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a reservation repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a reservation. Amounts are rounded to two decimal places
// at this persistence boundary. An insert that violates the no-overlap
// exclusion constraint returns ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"court_id",
			"booking_date",
			"time_from",
			"time_to",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"user_id",
			"court_amount",
			"total_amount",
			"payment_status",
		).
		Values(
			res.CourtID,
			res.Date,
			res.TimeFrom,
			res.TimeTo,
			res.Status,
			res.Customer.Name,
			res.Customer.Email,
			res.Customer.Phone,
			res.Customer.UserID,
			res.CourtAmount.Round(2),
			res.TotalAmount.Round(2),
			res.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID fetches a single reservation.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanOne(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// Find returns reservations matching the filter, ordered by start time for
// single-date queries and by date/time descending otherwise. Inside a
// transaction, ForUpdate locks the matched rows so the commit path's
// check-then-insert cannot interleave with a concurrent commit.
func (r *Repository) Find(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations")

	if filter.CourtID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": *filter.CourtID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.OnlyHolding {
		selectBuilder = selectBuilder.Where(squirrel.Eq{
			"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("time_from ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, time_from DESC")
	}

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// UpdateStatus sets the reservation status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// SetPaymentStatus sets only the payment status label.
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "SetPaymentStatus", query, args)
}

// SetPaymentOrder records the gateway order id created for the reservation.
func (r *Repository) SetPaymentOrder(ctx context.Context, id int64, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_order_id", orderID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentOrder - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "SetPaymentOrder", query, args)
}

// CompletePayment marks the reservation paid and confirmed in one update.
func (r *Repository) CompletePayment(ctx context.Context, id int64, paymentID, method string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("payment_status", domain.PaymentCompleted).
		Set("payment_id", paymentID).
		Set("payment_method", method).
		Set("paid_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CompletePayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "CompletePayment", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanOne(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var userID sql.NullInt64
	var courtAmount, totalAmount decimal.Decimal
	var orderID, paymentID, method sql.NullString
	var paidAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CourtID,
		&res.Date,
		&res.TimeFrom,
		&res.TimeTo,
		&res.Status,
		&res.Customer.Name,
		&res.Customer.Email,
		&res.Customer.Phone,
		&userID,
		&courtAmount,
		&totalAmount,
		&res.PaymentStatus,
		&orderID,
		&paymentID,
		&method,
		&paidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		res.Customer.UserID = &userID.Int64
	}
	res.CourtAmount = courtAmount
	res.TotalAmount = totalAmount
	if orderID.Valid {
		res.PaymentOrderID = &orderID.String
	}
	if paymentID.Valid {
		res.PaymentID = &paymentID.String
	}
	if method.Valid {
		res.PaymentMethod = &method.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		res.PaidAt = &t
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// isExclusionViolation detects the reservations_no_overlap constraint.
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 23P01 = exclusion_violation
	return pqErr.Code == "23P01"
}
