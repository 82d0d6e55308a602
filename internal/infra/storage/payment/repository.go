package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/psqlbuilder"
)

var paymentColumns = []string{
	"id",
	"reservation_id",
	"order_id",
	"payment_id",
	"amount",
	"currency",
	"method",
	"status",
	"raw_payload",
	"created_at",
}

// Repository persists payment attempts. The table is append-oriented;
// the unique payment_id index makes verification idempotent.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a payment repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a payment record. A replayed payment id returns
// ErrDuplicatePayment.
func (r *Repository) Create(ctx context.Context, rec *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("reservation_id", "order_id", "payment_id", "amount", "currency", "method", "status", "raw_payload").
		Values(
			rec.ReservationID,
			rec.OrderID,
			rec.PaymentID,
			rec.Amount.Round(2),
			rec.Currency,
			rec.Method,
			rec.Status,
			rec.RawPayload,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePayment
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return rec, nil
}

// GetByPaymentID fetches a record by the gateway payment id.
func (r *Repository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentID - build select query: %v", ErrBuildQuery, err)
	}

	rec, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("%w: GetByPaymentID - scan payment: %v", ErrScanRow, err)
	}

	return rec, nil
}

// ListByReservation returns the payment attempts for a reservation,
// oldest first.
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.PaymentRecord, 0)
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.PaymentRecord, error) {
	var rec domain.PaymentRecord
	err := row.Scan(
		&rec.ID,
		&rec.ReservationID,
		&rec.OrderID,
		&rec.PaymentID,
		&rec.Amount,
		&rec.Currency,
		&rec.Method,
		&rec.Status,
		&rec.RawPayload,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 23505 = unique_violation
	return pqErr.Code == "23505"
}
