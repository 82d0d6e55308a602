package history

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/psqlbuilder"
)

// Repository writes the append-only slot history. Rows are never updated
// or deleted.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a slot history repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append records a schedule event. Called inside the same transaction as
// the reservation change it describes.
func (r *Repository) Append(ctx context.Context, entry *domain.SlotHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_history").
		Columns("reservation_id", "court_id", "booking_date", "time_from", "time_to", "status", "actor_user_id").
		Values(
			entry.ReservationID,
			entry.CourtID,
			entry.Date,
			entry.TimeFrom,
			entry.TimeTo,
			entry.Status,
			entry.ActorUserID,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByReservation returns the trail for one reservation, oldest first.
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.SlotHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "reservation_id", "court_id", "booking_date", "time_from", "time_to", "status", "actor_user_id", "created_at").
		From("slot_history").
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

	entries := make([]*domain.SlotHistoryEntry, 0)
	for rows.Next() {
		var e domain.SlotHistoryEntry
		err := rows.Scan(
			&e.ID,
			&e.ReservationID,
			&e.CourtID,
			&e.Date,
			&e.TimeFrom,
			&e.TimeTo,
			&e.Status,
			&e.ActorUserID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
