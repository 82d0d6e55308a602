package addon

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/psqlbuilder"
)

// Repository reads the add-on catalog and persists per-reservation
// selections with their prices snapshotted at booking time.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an add-on repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByIDs loads active catalog entries for the given ids. Any id that is
// missing or inactive makes the whole lookup fail with ErrAddonNotFound,
// so a booking can never silently drop a requested add-on.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "unit_price", "pricing_mode", "active", "created_at").
		From("addons").
		Where(squirrel.Eq{"id": ids, "active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	found := make(map[int64]*domain.Addon, len(ids))
	for rows.Next() {
		var a domain.Addon
		err := rows.Scan(&a.ID, &a.Name, &a.UnitPrice, &a.PricingMode, &a.Active, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		found[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	addons := make([]*domain.Addon, 0, len(ids))
	for _, id := range ids {
		a, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrAddonNotFound, id)
		}
		addons = append(addons, a)
	}

	return addons, nil
}

// CreateSelections inserts the add-on snapshots for a reservation. Called
// inside the booking transaction so snapshots and the reservation land
// atomically.
func (r *Repository) CreateSelections(ctx context.Context, selections []domain.AddonSelection) error {
	if len(selections) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("reservation_addons").
		Columns("reservation_id", "addon_id", "name", "unit_price", "pricing_mode", "amount")

	for _, s := range selections {
		insertBuilder = insertBuilder.Values(
			s.ReservationID,
			s.AddonID,
			s.Name,
			s.UnitPrice.Round(2),
			s.PricingMode,
			s.Amount.Round(2),
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateSelections - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateSelections - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByReservationID returns the snapshots attached to a reservation.
func (r *Repository) GetByReservationID(ctx context.Context, reservationID int64) ([]domain.AddonSelection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "reservation_id", "addon_id", "name", "unit_price", "pricing_mode", "amount").
		From("reservation_addons").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	selections := make([]domain.AddonSelection, 0)
	for rows.Next() {
		var s domain.AddonSelection
		err := rows.Scan(&s.ID, &s.ReservationID, &s.AddonID, &s.Name, &s.UnitPrice, &s.PricingMode, &s.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByReservationID - scan row: %v", ErrScanRow, err)
		}
		selections = append(selections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - rows error: %v", ErrScanRow, err)
	}

	return selections, nil
}
